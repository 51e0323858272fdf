package handlers

const (
	// Layout width used when the client does not send one
	defaultLayoutWidth = 1000
	maxLayoutWidth     = 10000

	// Upper bound on an uploaded score file
	maxImportBytes = 1 << 20

	importFormField = "file"
)
