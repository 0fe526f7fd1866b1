package reading

import (
	"bytes"
	"path/filepath"
	"strings"

	"epubnav/config"
	"epubnav/publication"
)

// Values holds variables available for file name template expansion.
type Values struct {
	Title      string
	Identifier string
	Language   string
	SourceFile string
}

func expandName(name config.TemplateFieldName, field, src string, pub *publication.Publication) (string, error) {
	tmpl, err := config.ParseTemplate(name, field)
	if err != nil {
		return "", err
	}
	values := Values{
		Title:      pub.Metadata.Title,
		Identifier: pub.Metadata.Identifier,
		Language:   pub.Metadata.Language().String(),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return config.CleanFileName(strings.TrimSpace(buf.String())), nil
}
