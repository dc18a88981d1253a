package extractor

import "os"

// PlainText reads text-native formats verbatim.
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (*PlainText) Extensions() []string { return []string{".txt", ".md"} }

func (*PlainText) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
