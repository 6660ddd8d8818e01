package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// timedtextURL is YouTube's public caption endpoint. It serves the
// uploaded or auto-generated track as plain XML without OAuth.
const timedtextURL = "https://video.google.com/timedtext"

// transcriptClient fetches caption tracks from the timedtext endpoint.
type transcriptClient struct {
	client   *http.Client
	base     string
	language string
}

func newTranscriptClient(client *http.Client, language string) *transcriptClient {
	return &transcriptClient{client: client, base: timedtextURL, language: language}
}

// timedtextResponse is the timedtext XML payload.
type timedtextResponse struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedtextCue `xml:"text"`
}

// timedtextCue is a single caption cue.
type timedtextCue struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// Fetch retrieves the transcript for a video, trying the configured
// language and falling back to the auto-generated track.
func (c *transcriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	for _, kind := range []string{"", "asr"} {
		text, err := c.fetchTrack(ctx, videoID, kind)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("video %s: %w", videoID, domain.ErrNoTranscript)
}

// fetchTrack requests one caption track. An empty body means the track
// does not exist, which is not an error at this level.
func (c *transcriptClient) fetchTrack(ctx context.Context, videoID, kind string) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", c.language)
	if kind != "" {
		params.Set("kind", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create transcript request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript %s: %w: %v", videoID, domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript %s: status %d: %w", videoID, resp.StatusCode, domain.ErrProvider)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", videoID, err)
	}
	if len(body) == 0 {
		return "", nil
	}

	return parseTimedtext(body)
}

// parseTimedtext joins the caption cues into one block of text. Cue
// bodies are HTML-escaped inside the XML, so they are unescaped a
// second time after decoding.
func parseTimedtext(data []byte) (string, error) {
	var parsed timedtextResponse
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	parts := make([]string, 0, len(parsed.Texts))
	for _, cue := range parsed.Texts {
		text := strings.TrimSpace(html.UnescapeString(cue.Body))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "), nil
}
