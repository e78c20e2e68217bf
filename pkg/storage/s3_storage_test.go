package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	key := "users/u1/images/a.png"

	assert.Equal(t, "https://cdn.example.com/"+key,
		PublicURL(S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, key))
	assert.Equal(t, "http://127.0.0.1:9000/b/"+key,
		PublicURL(S3Config{Bucket: "b", Endpoint: "http://127.0.0.1:9000/"}, key))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/"+key,
		PublicURL(S3Config{Bucket: "b", Region: "eu-west-1"}, key))
}
