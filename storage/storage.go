// Package storage resolve a referência de vídeo de uma aula numa URL tocável.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"coursehub/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type VideoResolver struct {
	bucket     string
	publicBase string
	expires    time.Duration
	presigner  *s3.PresignClient
}

// NewVideoResolver só cria o client S3 quando bucket e credenciais estão configurados.
func NewVideoResolver(conf config.Configuration) *VideoResolver {
	r := &VideoResolver{
		bucket:     conf.Storage.Bucket,
		publicBase: strings.TrimRight(conf.Storage.PublicBaseURL, "/"),
		expires:    time.Duration(conf.Storage.PresignMinutes) * time.Minute,
	}
	if r.expires <= 0 {
		r.expires = time.Hour
	}
	if !conf.StorageEnabled() {
		return r
	}

	opts := s3.Options{
		Region:       conf.Storage.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(conf.Storage.AccessKey, conf.Storage.SecretKey, ""),
		UsePathStyle: conf.Storage.Endpoint != "",
	}
	if conf.Storage.Endpoint != "" {
		opts.BaseEndpoint = aws.String(conf.Storage.Endpoint)
	}
	r.presigner = s3.NewPresignClient(s3.New(opts))
	return r
}

// Resolve: URLs absolutas passam direto; chaves de objeto viram URL assinada
// (S3 configurado) ou são anexadas ao public_base_url.
func (r *VideoResolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return ref, nil
	}

	key := strings.TrimLeft(ref, "/")
	if r.presigner != nil {
		req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(r.expires))
		if err != nil {
			return "", fmt.Errorf("presign %s: %w", key, err)
		}
		return req.URL, nil
	}

	if r.publicBase == "" {
		return "/" + key, nil
	}
	return r.publicBase + "/" + key, nil
}
