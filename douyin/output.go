package douyin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Response is the subset of the TikHub answer that BuildOutput reads.
type Response struct {
	Code      *int   `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Data      *struct {
		AwemeDetail *AwemeDetail `json:"aweme_detail"`
	} `json:"data"`
}

// AwemeDetail describes one Douyin post.
type AwemeDetail struct {
	AwemeID string `json:"aweme_id"`
	Desc    string `json:"desc"`
	Author  *struct {
		UID      string `json:"uid"`
		SecUID   string `json:"sec_uid"`
		UniqueID string `json:"unique_id"`
		Nickname string `json:"nickname"`
	} `json:"author"`
	Music *struct {
		PlayURL *URLList `json:"play_url"`
	} `json:"music"`
	Video *struct {
		OriginCover *URLList  `json:"origin_cover"`
		BitRate     []BitRate `json:"bit_rate"`
	} `json:"video"`
}

// URLList is a TikHub list of mirror URLs. Entries are kept raw because the
// API does not guarantee they are strings.
type URLList struct {
	URLList []json.RawMessage `json:"url_list"`
}

// BitRate is one encoded rendition of the video.
type BitRate struct {
	GearName    string   `json:"gear_name"`
	QualityType *int     `json:"quality_type"`
	BitRate     int64    `json:"bit_rate"`
	PlayAddr    *URLList `json:"play_addr"`
}

// Author is the normalized author block.
type Author struct {
	UID      *string `json:"uid"`
	SecUID   *string `json:"sec_uid"`
	UniqueID *string `json:"unique_id"`
	Nickname *string `json:"nickname"`
}

// APIInfo echoes the TikHub envelope fields.
type APIInfo struct {
	Code      *int    `json:"code"`
	Message   *string `json:"message"`
	RequestID *string `json:"request_id"`
}

// Output is the normalized metadata. Missing values encode as null.
type Output struct {
	ShareURL               string  `json:"share_url"`
	AwemeID                *string `json:"aweme_id"`
	Desc                   *string `json:"desc"`
	Author                 Author  `json:"author"`
	CoverURL               *string `json:"cover_url"`
	AudioURL               *string `json:"audio_url"`
	VideoURL               *string `json:"video_url"`
	VideoURLFirstAvailable *string `json:"video_url_first_available"`
	VideoQualitySelected   *string `json:"video_quality_selected"`
	VideoBitRateCount      int     `json:"video_bit_rate_count"`
	API                    APIInfo `json:"api"`
}

// BuildOutput normalizes a TikHub response for shareURL.
func BuildOutput(shareURL string, resp *Response) *Output {
	out := &Output{ShareURL: shareURL}
	if resp == nil {
		return out
	}

	out.API = APIInfo{
		Code:      resp.Code,
		Message:   optional(resp.Message),
		RequestID: optional(resp.RequestID),
	}

	if resp.Data == nil || resp.Data.AwemeDetail == nil {
		return out
	}
	aweme := resp.Data.AwemeDetail

	out.AwemeID = optional(aweme.AwemeID)
	out.Desc = optional(aweme.Desc)

	if aweme.Author != nil {
		out.Author = Author{
			UID:      optional(aweme.Author.UID),
			SecUID:   optional(aweme.Author.SecUID),
			UniqueID: optional(aweme.Author.UniqueID),
			Nickname: optional(aweme.Author.Nickname),
		}
	}

	if aweme.Music != nil {
		out.AudioURL = firstURL(aweme.Music.PlayURL)
	}

	if aweme.Video != nil {
		out.CoverURL = firstURL(aweme.Video.OriginCover)
		out.VideoBitRateCount = len(aweme.Video.BitRate)
		for _, rendition := range aweme.Video.BitRate {
			if u := firstURL(rendition.PlayAddr); u != nil {
				out.VideoURL = u
				out.VideoURLFirstAvailable = u
				out.VideoQualitySelected = optional(qualityLabel(rendition))
				break
			}
		}
	}

	return out
}

// WriteText writes the short human-readable summary.
func (o *Output) WriteText(w io.Writer) {
	fmt.Fprintf(w, "aweme_id: %s\n", deref(o.AwemeID))
	fmt.Fprintf(w, "desc: %s\n", deref(o.Desc))
	fmt.Fprintf(w, "cover_url: %s\n", deref(o.CoverURL))
	fmt.Fprintf(w, "audio_url: %s\n", deref(o.AudioURL))
	fmt.Fprintf(w, "video_url: %s\n", deref(o.VideoURL))
}

// WriteRaw saves the raw TikHub body as indented JSON with a trailing
// newline, creating parent directories.
func WriteRaw(path string, raw []byte) (string, error) {
	full, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve raw path: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format raw response: %w", err)
	}
	buf.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create raw output directory: %w", err)
	}
	if err := os.WriteFile(full, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write raw response: %w", err)
	}
	return full, nil
}

func qualityLabel(b BitRate) string {
	if name := strings.TrimSpace(b.GearName); name != "" {
		return strings.ToLower(name)
	}
	if b.QualityType != nil {
		return fmt.Sprintf("quality_type_%d", *b.QualityType)
	}
	return "unknown"
}

// firstURL returns the first non-empty string entry.
func firstURL(list *URLList) *string {
	if list == nil {
		return nil
	}
	for _, item := range list.URLList {
		var s string
		if json.Unmarshal(item, &s) == nil && s != "" {
			return &s
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
