package hub

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const testRepository = "library/postgres"

const tagsPath = "/v2/repositories/library/postgres/tags/"

const tagsPageOne = `{
	"count": 3,
	"next": "https://registry.hub.docker.com/v2/repositories/library/postgres/tags/?page=2&page_size=100",
	"previous": null,
	"results": [
		{
			"name": "17.5",
			"full_size": 157811973,
			"last_updated": "2026-05-09T18:14:05.896937Z",
			"images": [
				{"architecture": "amd64", "variant": null, "os": "linux", "digest": "sha256:1f6295f54a26fbc2cef745dcf80e1f3b7dc1b1c5ab5ed03bdf26113a1d6ca6f0", "size": 157811973, "status": "active"},
				{"architecture": "arm64", "variant": "v8", "os": "linux", "digest": "sha256:8c2c0d0d1a6ab3e4c0e377ed0dd2d3ad2b2b71419a5e6e5a3f0f9f7a5d9d4b52", "size": 152104987, "status": "active"}
			]
		},
		{
			"name": "17",
			"full_size": 157811973,
			"last_updated": "2026-05-09T18:13:40.101262Z",
			"images": [
				{"architecture": "amd64", "variant": null, "os": "linux", "digest": "sha256:59ca1bd4d4b13ffcf74e1e9adf5e0114e33ea0f5b8a4a593182b5ee4e024f0a8", "size": 157811973, "status": "active"},
				{"architecture": "386", "variant": null, "os": "linux", "digest": "sha256:c3f19ae4f0628e9bfa2a66f5f4ec80d2b2f62c1ab9204fe3a7663b4b62b9f085", "size": 162544280, "status": "inactive"}
			]
		}
	]
}`

const tagsPageTwo = `{
	"count": 3,
	"next": null,
	"previous": "https://registry.hub.docker.com/v2/repositories/library/postgres/tags/?page_size=100",
	"results": [
		{
			"name": "16",
			"full_size": 153210817,
			"last_updated": "2026-05-09T18:10:11.000000Z",
			"images": [
				{"architecture": "amd64", "variant": null, "os": "linux", "digest": "sha256:4d1f742540a9e2e0e654e906a3e743d4cc0b4b94646fd0c12e17212ef54a6b06", "size": 153210817, "status": "active"}
			]
		}
	]
}`

const tagImagesBody = `[
	{"architecture": "amd64", "variant": null, "os": "linux", "digest": "sha256:1f6295f54a26fbc2cef745dcf80e1f3b7dc1b1c5ab5ed03bdf26113a1d6ca6f0", "size": 157811973, "status": "active"},
	{"architecture": "arm64", "variant": "v8", "os": "linux", "digest": "sha256:8c2c0d0d1a6ab3e4c0e377ed0dd2d3ad2b2b71419a5e6e5a3f0f9f7a5d9d4b52", "size": 152104987, "status": "inactive"}
]`

// mockTagListing registers both pages of the canned tag listing. The mock
// for the second page has to come first: gock tries mocks in registration
// order, and the first page's mock would match a ?page=2 request as well.
func mockTagListing() {
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		MatchParam("page", "2").
		Persist().
		Reply(200).
		BodyString(tagsPageTwo)
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		MatchParam("page_size", "100").
		Persist().
		Reply(200).
		BodyString(tagsPageOne)
}

func TestTags(t *testing.T) {
	defer gock.Off()
	mockTagListing()

	client := Client{}
	names := []string{}
	for tag, err := range client.Tags(context.Background(), testRepository) {
		require.NoError(t, err)
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"17.5", "17", "16"}, names)
}

func TestTagsRestarts(t *testing.T) {
	defer gock.Off()
	mockTagListing()

	client := Client{}
	tags := client.Tags(context.Background(), testRepository)
	for range 2 {
		count := 0
		for _, err := range tags {
			require.NoError(t, err)
			count++
		}
		assert.Equal(t, 3, count)
	}
}

func TestTagsStopsEarly(t *testing.T) {
	defer gock.Off()
	// Only the first page is mocked; leaving the loop within it must not
	// fetch the second one.
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		Reply(200).
		BodyString(tagsPageOne)

	client := Client{}
	for tag, err := range client.Tags(context.Background(), testRepository) {
		require.NoError(t, err)
		assert.Equal(t, "17.5", tag.Name)
		break
	}
	assert.True(t, gock.IsDone())
}

func TestTagPages(t *testing.T) {
	defer gock.Off()
	mockTagListing()

	client := Client{}
	pages := []*TagsPage{}
	for page, err := range client.TagPages(context.Background(), testRepository) {
		require.NoError(t, err)
		pages = append(pages, page)
	}
	require.Len(t, pages, 2)
	assert.Equal(t, tagsPageOne, string(pages[0].Raw))
	assert.Equal(t, tagsPageTwo, string(pages[1].Raw))
	assert.NotNil(t, pages[0].Next)
	assert.Nil(t, pages[1].Next)

	require.Len(t, pages[0].Results, 2)
	first := pages[0].Results[0]
	assert.Equal(t, "17.5", first.Name)
	assert.Equal(t, int64(157811973), first.FullSize)
	require.NotNil(t, first.LastUpdated)
	assert.Equal(t, 2026, first.LastUpdated.Year())
	require.Len(t, first.Images, 2)
	assert.Equal(t, "arm64", first.Images[1].Architecture)
	assert.Equal(t, "v8", first.Images[1].Variant)
	assert.Equal(t, "", first.Images[0].Variant)
	assert.Equal(t, "sha256:8c2c0d0d1a6ab3e4c0e377ed0dd2d3ad2b2b71419a5e6e5a3f0f9f7a5d9d4b52", first.Images[1].Digest.String())
}

func TestTagsRepositoryMissing(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get("/v2/repositories/library/nosuch/tags/").
		Reply(404).
		BodyString(`{"message": "object not found", "errinfo": {}}`)

	client := Client{}
	var firstErr error
	for _, err := range client.Tags(context.Background(), "library/nosuch") {
		firstErr = err
	}
	require.Error(t, firstErr)
	statusErr := &UnexpectedStatusError{}
	require.ErrorAs(t, firstErr, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
	assert.Contains(t, string(statusErr.Body), "object not found")
	assert.ErrorContains(t, firstErr, "404")
}

func TestTagsBadBody(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		Reply(200).
		BodyString("<html>not json</html>")

	client := Client{}
	var firstErr error
	for _, err := range client.Tags(context.Background(), testRepository) {
		firstErr = err
	}
	invalidErr := &InvalidResponseError{}
	require.ErrorAs(t, firstErr, &invalidErr)
}

func TestTagsTransportFailure(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		ReplyError(errors.New("connection reset"))

	client := Client{}
	var firstErr error
	for _, err := range client.Tags(context.Background(), testRepository) {
		firstErr = err
	}
	transportErr := &TransportError{}
	require.ErrorAs(t, firstErr, &transportErr)
	assert.ErrorContains(t, firstErr, "connection reset")
}

func TestSinkSeesEveryBody(t *testing.T) {
	defer gock.Off()
	mockTagListing()

	sink := bytes.Buffer{}
	client := Client{Sink: &sink}
	for _, err := range client.Tags(context.Background(), testRepository) {
		require.NoError(t, err)
	}
	assert.Equal(t, tagsPageOne+tagsPageTwo, sink.String())
}

func TestSinkSeesFailedBodies(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		Reply(404).
		BodyString(`{"message": "object not found"}`)

	sink := bytes.Buffer{}
	client := Client{Sink: &sink}
	var firstErr error
	for _, err := range client.Tags(context.Background(), testRepository) {
		firstErr = err
	}
	require.Error(t, firstErr)
	assert.JSONEq(t, `{"message": "object not found"}`, sink.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSinkFailureDoesNotAbort(t *testing.T) {
	defer gock.Off()
	mockTagListing()

	client := Client{Sink: brokenWriter{}}
	count := 0
	for _, err := range client.Tags(context.Background(), testRepository) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestTagImages(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get("/v2/repositories/library/postgres/tags/17.5/images").
		Reply(200).
		BodyString(tagImagesBody)

	client := Client{}
	images, err := client.TagImages(context.Background(), testRepository, "17.5")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "amd64", images[0].Architecture)
	assert.Equal(t, "active", images[0].Status)
	assert.Equal(t, "inactive", images[1].Status)
	assert.Equal(t, int64(157811973), images[0].Size)
}

func TestRequestShape(t *testing.T) {
	defer gock.Off()
	gock.New(DefaultBaseURL).
		Get(tagsPath).
		MatchParam("page_size", "2").
		MatchHeader("User-Agent", "^docker-tags/").
		Reply(200).
		BodyString(tagsPageTwo)

	client := Client{PageSize: 2}
	count := 0
	for _, err := range client.Tags(context.Background(), testRepository) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 1, count)
	assert.True(t, gock.IsDone())
}
