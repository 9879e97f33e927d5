package services

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const uploadTimeout = 30 * time.Second

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
}

// MediaFolder returns the media host folder for a kind of upload.
func MediaFolder(kind string) string {
	return config.Config("CLOUDINARY_FOLDER") + "_" + kind
}

// SignUpload signs upload parameters so the browser can send a file straight
// to the media host.
func SignUpload(folder string, now time.Time) (*UploadSignature, error) {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse cloudinary url")
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, errors.Wrap(err, "prepare signature params")
	}
	timestamp := now.Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign upload params")
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		Folder:    folder,
	}, nil
}

// UploadFile sends file to the media host and returns its secure URL.
// resourceType is "auto" for user files and "raw" for generated documents.
func UploadFile(ctx context.Context, file io.Reader, folder, publicID, resourceType string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", errors.Wrap(err, "initialize cloudinary")
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload file")
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
