package interfaces

import "context"

type Uploader interface {
	// UploadBytes stores b and returns its public URL.
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}
