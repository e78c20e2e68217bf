package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageService(env *testEnv, generator ImageGenerator, store *memoryObjectStorage) *imageService {
	var s *imageService
	if store == nil {
		s = NewImageService(env.uow, generator, nil, env.log).(*imageService)
	} else {
		s = NewImageService(env.uow, generator, store, env.log).(*imageService)
	}
	s.now = env.clock.Now
	return s
}

func TestImageService_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "noimg@example.com")
	svc := NewImageService(env.uow, nil, nil, env.log)

	_, err := svc.GenerateImage(context.Background(), user.Id, &dto.GenerateImageRequest{Prompt: "a cat"})
	assert.True(t, apperror.Is(err, apperror.KindUnavailable))
}

func TestImageService_GenerateStoresInObjectStorage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "img@example.com")
	generator := &stubGenerator{}
	store := newMemoryObjectStorage()
	svc := newTestImageService(env, generator, store)
	ctx := context.Background()

	img, err := svc.GenerateImage(ctx, user.Id, &dto.GenerateImageRequest{Prompt: "a lighthouse"})
	require.NoError(t, err)
	assert.Equal(t, defaultImageSize, img.Width)
	assert.Equal(t, defaultImageSize, img.Height)
	assert.True(t, strings.HasPrefix(img.URL, "https://cdn.example.com/users/"+user.Id.String()+"/images/"))
	assert.True(t, strings.HasSuffix(img.URL, ".webp"))
	assert.Len(t, store.objects, 1)

	list, err := svc.ListImages(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stranger := env.createUser(t, "stranger@example.com")
	err = svc.DeleteImage(ctx, stranger.Id, img.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, svc.DeleteImage(ctx, user.Id, img.Id))
	assert.Empty(t, store.objects)
	list, err = svc.ListImages(ctx, user.Id)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImageService_WithoutStorageKeepsSourceURL(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "direct@example.com")
	svc := newTestImageService(env, &stubGenerator{}, nil)

	img, err := svc.GenerateImage(context.Background(), user.Id, &dto.GenerateImageRequest{Prompt: "a forest", Width: 512, Height: 768})
	require.NoError(t, err)
	assert.Equal(t, "https://replicate.delivery/out.webp", img.URL)
	assert.Equal(t, 512, img.Width)
	assert.Equal(t, 768, img.Height)
}

func TestImageService_GeneratorFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "fail@example.com")
	svc := newTestImageService(env, &stubGenerator{err: errors.New("boom")}, nil)

	_, err := svc.GenerateImage(context.Background(), user.Id, &dto.GenerateImageRequest{Prompt: "a forest"})
	assert.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestImageService_PromptPortrait(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "portrait@example.com")
	chat := env.createChat(t, user.Id, nil)
	ctx := context.Background()

	prompt, err := env.promptService().AddPrompt(ctx, chat.Id, user.Id, samplePrompt("Dana", 34))
	require.NoError(t, err)

	generator := &stubGenerator{}
	svc := newTestImageService(env, generator, newMemoryObjectStorage())

	updated, err := svc.GeneratePromptImage(ctx, chat.Id, user.Id, prompt.Id)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ImageURL)

	require.Len(t, generator.requests, 1)
	assert.Contains(t, generator.requests[0].Prompt, "Dana, a 34-year-old Product Manager")
	assert.Equal(t, portraitSize, generator.requests[0].Width)

	got, err := env.promptService().GetPromptById(ctx, chat.Id, user.Id, prompt.Id)
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURL, got.ImageURL)

	_, err = svc.GeneratePromptImage(ctx, chat.Id, user.Id, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestImageExtension(t *testing.T) {
	assert.Equal(t, "jpg", imageExtension("image/jpeg"))
	assert.Equal(t, "webp", imageExtension("image/webp; charset=binary"))
	assert.Equal(t, "png", imageExtension(""))
}
