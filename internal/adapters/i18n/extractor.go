// Package i18n collects the translation ids referenced by a source file.
package i18n

import (
	"regexp"
	"slices"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
)

var _ ports.Analyzer = (*Extractor)(nil)

var (
	// translate('id'), t("id")
	callPattern = regexp.MustCompile(`\b(?:translate|t)\(\s*(?:'([^'\n]+)'|"([^"\n]+)")`)
	// <Translate id="id" />
	elementPattern = regexp.MustCompile(`<Translate\b[^>]*?\bid=(?:'([^'\n]+)'|"([^"\n]+)"|\{\s*(?:'([^'\n]+)'|"([^"\n]+)")\s*\})`)
	// withTranslations(['a', "b"])
	listPattern   = regexp.MustCompile(`\bwithTranslations\(\s*\[([^\]]*)\]`)
	stringPattern = regexp.MustCompile(`'([^'\n]+)'|"([^"\n]+)"`)
)

// Extractor records translation ids under domain.MetadataTranslationIDs.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Analyze scans source for translation ids. Ids are deduplicated and sorted;
// metadata is left untouched when none are found.
func (e *Extractor) Analyze(source string, opts *domain.CompileOptions, md domain.Metadata) {
	if opts != nil && opts.Loader == "json" {
		return
	}

	ids := Extract(source)
	if len(ids) == 0 {
		return
	}
	md[domain.MetadataTranslationIDs] = ids
}

// Extract returns the sorted unique translation ids referenced in source.
func Extract(source string) []string {
	var ids []string

	for _, m := range callPattern.FindAllStringSubmatch(source, -1) {
		ids = appendGroups(ids, m)
	}
	for _, m := range elementPattern.FindAllStringSubmatch(source, -1) {
		ids = appendGroups(ids, m)
	}
	for _, list := range listPattern.FindAllStringSubmatch(source, -1) {
		for _, m := range stringPattern.FindAllStringSubmatch(list[1], -1) {
			ids = appendGroups(ids, m)
		}
	}

	slices.Sort(ids)
	return slices.Compact(ids)
}

// appendGroups appends the first non-empty capture group of m.
func appendGroups(ids []string, m []string) []string {
	for _, g := range m[1:] {
		if g != "" {
			return append(ids, g)
		}
	}
	return ids
}
