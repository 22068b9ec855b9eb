package handler

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	notesEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	notesPolicy = bluemonday.UGCPolicy()
)

// renderNotes 将日志备注渲染为净化后的 HTML
func renderNotes(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := notesEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(notesPolicy.SanitizeBytes(buf.Bytes())), nil
}
