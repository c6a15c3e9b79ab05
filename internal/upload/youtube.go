package upload

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/meta"
	"github.com/caratcompare/caratreel/internal/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Publisher puts one video online and returns its id
type Publisher interface {
	Publish(ctx context.Context, path string, m meta.Metadata) (string, error)
}

type YouTube struct {
	service *youtube.Service
	privacy string
}

// NewYouTube authenticates with a service account when one is configured,
// otherwise with the OAuth client secrets and the cached token. Without a
// cached token the consent url is printed to out and the code read from in.
func NewYouTube(ctx context.Context, c config.UploadConfig, in io.Reader, out io.Writer) (*YouTube, error) {
	client, err := httpClient(ctx, c, in, out)
	if err != nil {
		return nil, err
	}
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	privacy := c.Privacy
	if privacy == "" {
		privacy = "public"
	}
	return &YouTube{service: service, privacy: privacy}, nil
}

func httpClient(ctx context.Context, c config.UploadConfig, in io.Reader, out io.Writer) (*http.Client, error) {
	if c.ServiceAccount != "" {
		data, err := os.ReadFile(c.ServiceAccount)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account: %w", err)
		}
		return jwt.Client(ctx), nil
	}

	data, err := os.ReadFile(c.ClientSecrets)
	if err != nil {
		return nil, fmt.Errorf("client secrets %s not found: %w", c.ClientSecrets, err)
	}
	oc, err := google.ConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secrets: %w", err)
	}

	tok, err := loadToken(c.TokenFile)
	if err != nil {
		tok, err = authorize(ctx, oc, in, out)
		if err != nil {
			return nil, err
		}
		if err := storage.WriteJSON(c.TokenFile, tok); err != nil {
			logger.Scope("youtube").Warnf("could not cache token in %s: %v", c.TokenFile, err)
		}
	}
	return oc.Client(ctx, tok), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func authorize(ctx context.Context, oc *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	url := oc.AuthCodeURL("caratreel", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this link, allow access and paste the code here:\n%s\n> ", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && code == "" {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	tok, err := oc.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func (y *YouTube) Publish(ctx context.Context, path string, m meta.Metadata) (string, error) {
	log := logger.Scope("youtube")
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}
	log.Infof("Uploading: %s (%.2f MB)", m.Title, float64(info.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       m.Title,
			Description: m.Description,
			Tags:        m.Tags,
			CategoryId:  m.Category,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           y.privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	res, err := y.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}
	return res.Id, nil
}
