package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"monitoria-system/config"

	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("projects", 12, ".pdf")
	require.Regexp(t, regexp.MustCompile(`^projects/12/\d+\.pdf$`), name)
}

func TestPresignedGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewS3(ctx, config.S3{
		Endpoint:        "http://127.0.0.1:9000",
		Bucket:          "monitoria",
		Region:          "us-east-1",
		AccessKey:       "minioadmin",
		SecretAccessKey: "minioadmin",
		Prefix:          "/documentos/",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	url, err := store.PresignedGet(ctx, "editais/3/1.pdf", 10*time.Minute)
	require.NoError(t, err)
	require.Contains(t, url, "http://127.0.0.1:9000/monitoria/documentos/editais/3/1.pdf?")
	require.Contains(t, url, "X-Amz-Expires=600")

	_, err = NewS3(ctx, config.S3{})
	require.Error(t, err)
}
