package douban

import (
	"context"
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed profile_page_test.html
var profilePageTest []byte

func TestFetchProfile(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		"https://www.douban.com/people/u/": profilePageTest,
	}}

	profile, err := FetchProfile(context.Background(), fetcher, "https://www.douban.com", "u")
	require.NoError(t, err)
	require.Equal(t, "沙丘迷", profile.Name)
	require.Equal(t, "https://img.example.com/avatar.jpg", profile.AvatarURL)
	require.Equal(t, "2015-06-18", profile.RegisteredAt)
}

func TestFetchProfileMissingFields(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{
		"https://www.douban.com/people/u/": []byte("<html><head><title>某人 - 豆瓣</title></head><body></body></html>"),
	}}

	profile, err := FetchProfile(context.Background(), fetcher, "https://www.douban.com", "u")
	require.NoError(t, err)
	require.Equal(t, "某人", profile.Name)
	require.Empty(t, profile.AvatarURL)
	require.Empty(t, profile.RegisteredAt)
}

func TestFetchProfileFailure(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{}}

	_, err := FetchProfile(context.Background(), fetcher, "https://www.douban.com", "u")
	require.Error(t, err)
}
