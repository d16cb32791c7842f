package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Response metadata keys describing the exported artifact.
const (
	FilenameHeaderName = "x-export-filename"
	MimeTypeHeaderName = "x-export-mime-type"
)
