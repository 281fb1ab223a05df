package domain

// Upload is a file already written to upload storage for the current
// request. A nil *Upload means the request carried no file.
type Upload struct {
	Filename string
}
