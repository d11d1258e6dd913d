package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/m-mizutani/goerr/v2"
)

// New connects with an explicit CLOUDINARY_URL. An empty url falls back to
// the environment variable read by the SDK.
func New(url string) (*cloudinary.Cloudinary, error) {
	if url == "" {
		cld, err := cloudinary.New()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init cloudinary from environment")
		}
		return cld, nil
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init cloudinary")
	}
	return cld, nil
}
