package domain

import (
	"fmt"
	"strings"
	"time"
)

// Analysis is the structured result of summarising a video with the LLM.
// Every section is optional; empty sections are skipped when the report
// is rendered or indexed.
type Analysis struct {
	// MainTopics are the broad subjects covered by the video.
	MainTopics []string `json:"main_topics,omitempty"`

	// KeyPoints are the main takeaways.
	KeyPoints []string `json:"key_points,omitempty"`

	// ImportantFacts are concrete factual claims made in the video.
	ImportantFacts []string `json:"important_facts,omitempty"`

	// TechnicalDetails captures technical specifics, if any.
	TechnicalDetails []string `json:"technical_details,omitempty"`

	// ExamplesAndStories are anecdotes and illustrations used.
	ExamplesAndStories []string `json:"examples_and_stories,omitempty"`

	// ImportantSegments point at notable parts of the video.
	ImportantSegments []string `json:"important_segments,omitempty"`

	// DetailedSummary is the long-form summary.
	DetailedSummary string `json:"detailed_summary,omitempty"`

	// OverallSummary is the short overview.
	OverallSummary string `json:"overall_summary,omitempty"`
}

// Report is the persisted analysis record for a single video.
// It is the fixed-shape replacement for the free-form report
// dictionaries the LLM produces: reports are normalised into this
// record before they are stored or indexed.
type Report struct {
	// VideoID is the YouTube video ID. Required.
	VideoID string `json:"video_id"`

	// VideoTitle is the video title at analysis time. Required.
	VideoTitle string `json:"video_title"`

	// ChannelTitle is the owning channel's title, when known.
	ChannelTitle string `json:"channel_title,omitempty"`

	// Analysis holds the structured LLM output.
	Analysis Analysis `json:"analysis"`

	// GeneratedAt records when the report was produced.
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// Validate checks that the report carries the fields indexing depends on.
func (r Report) Validate() error {
	if strings.TrimSpace(r.VideoID) == "" {
		return fmt.Errorf("%w: report has no video id", ErrInvalidInput)
	}
	if strings.TrimSpace(r.VideoTitle) == "" {
		return fmt.Errorf("%w: report %s has no video title", ErrInvalidInput, r.VideoID)
	}
	return nil
}

// Section is a named block of report text produced for indexing.
type Section struct {
	// Name identifies the section ("key_points", "overall_summary", ...).
	Name string

	// Text is the rendered section content.
	Text string
}

// Sections renders the report into its logical text sections, in a
// stable order, skipping sections with no content. The rendered text is
// what gets chunked and indexed.
func (r Report) Sections() []Section {
	var sections []Section

	add := func(name, text string) {
		if strings.TrimSpace(text) != "" {
			sections = append(sections, Section{Name: name, Text: text})
		}
	}
	addList := func(name, heading string, items []string) {
		if len(items) == 0 {
			return
		}
		var b strings.Builder
		b.WriteString(heading)
		for _, item := range items {
			b.WriteString("\n- ")
			b.WriteString(item)
		}
		add(name, b.String())
	}

	add("title", "Video title: "+r.VideoTitle)
	if r.ChannelTitle != "" {
		add("channel", "Channel: "+r.ChannelTitle)
	}

	a := r.Analysis
	if len(a.MainTopics) > 0 {
		add("main_topics", "Main topics: "+strings.Join(a.MainTopics, ", "))
	}
	addList("key_points", "Key points:", a.KeyPoints)
	addList("important_facts", "Important facts:", a.ImportantFacts)
	addList("technical_details", "Technical details:", a.TechnicalDetails)
	addList("examples_and_stories", "Examples and stories:", a.ExamplesAndStories)
	addList("important_segments", "Important segments:", a.ImportantSegments)
	if strings.TrimSpace(a.DetailedSummary) != "" {
		add("detailed_summary", "Detailed summary: "+a.DetailedSummary)
	}
	if strings.TrimSpace(a.OverallSummary) != "" {
		add("overall_summary", "Overall summary: "+a.OverallSummary)
	}

	return sections
}

// IndexText renders the report sections into the single text that gets
// chunked, separated by blank lines.
func (r Report) IndexText() string {
	sections := r.Sections()
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}
