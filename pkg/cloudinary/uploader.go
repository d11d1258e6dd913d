package cloudinary

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/m-mizutani/goerr/v2"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

func (u *CloudinaryUploader) UploadBytes(
	ctx context.Context,
	folder string,
	filename string,
	b []byte,
) (string, error) {
	res, err := u.cld.Upload.Upload(
		ctx,
		bytes.NewReader(b),
		uploader.UploadParams{
			Folder:         folder,
			PublicID:       filename,
			ResourceType:   "auto",
			UniqueFilename: api.Bool(true),
			Overwrite:      api.Bool(false),
		},
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload file", goerr.V("folder", folder), goerr.V("filename", filename))
	}
	if res.Error.Message != "" {
		return "", goerr.New("upload rejected", goerr.V("reason", res.Error.Message), goerr.V("filename", filename))
	}

	return res.SecureURL, nil
}
