package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/markdown"
)

// Pattern selects content files inside a collection directory.
const Pattern = "**/*.{md,mdx}"

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// frontMatter is the union of the fields any collection reads.
type frontMatter struct {
	Slug        string    `yaml:"slug"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Published   *bool     `yaml:"published"`
	Date        time.Time `yaml:"date"`
	Authors     []string  `yaml:"authors"`
	Categories  []string  `yaml:"categories"`
	Image       string    `yaml:"image"`
	Avatar      string    `yaml:"avatar"`
	Twitter     string    `yaml:"twitter"`
	Name        string    `yaml:"name"`
	Icon        string    `yaml:"icon"`
}

// LoadDir reads every collection from its subdirectory of fsys (posts/,
// pages/, authors/, categories/). A missing subdirectory is an empty
// collection. A file's slug is its path inside the collection directory
// without extension, unless the front matter sets one.
func LoadDir(fsys fs.FS) (Source, error) {
	var src Source
	for _, c := range Collections {
		files, err := collectionFiles(fsys, c)
		if err != nil {
			return Source{}, err
		}
		for _, name := range files {
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return Source{}, fmt.Errorf("read %s: %w", name, err)
			}
			fm, h, err := parseFile(name, string(c), data)
			if err != nil {
				return Source{}, err
			}
			switch c {
			case Posts:
				if fm.Date.IsZero() {
					return Source{}, fmt.Errorf("%s: post has no date", name)
				}
				src.Posts = append(src.Posts, Post{
					Header:     h,
					Date:       fm.Date,
					Authors:    fm.Authors,
					Categories: fm.Categories,
					Image:      fm.Image,
				})
			case Pages:
				src.Pages = append(src.Pages, Page{Header: h})
			case Authors:
				src.Authors = append(src.Authors, Author{
					Header:      h,
					DisplayName: firstNonEmpty(fm.Name, h.Title),
					Twitter:     fm.Twitter,
					Avatar:      fm.Avatar,
				})
			case Categories:
				src.Categories = append(src.Categories, Category{
					Header:      h,
					DisplayName: firstNonEmpty(fm.Name, h.Title),
					Icon:        fm.Icon,
				})
			}
		}
	}
	return src, nil
}

// LoadSnapshot reads fsys with LoadDir and indexes the result.
func LoadSnapshot(fsys fs.FS) (*Snapshot, error) {
	src, err := LoadDir(fsys)
	if err != nil {
		return nil, err
	}
	return Load(src)
}

func collectionFiles(fsys fs.FS, c Collection) ([]string, error) {
	if _, err := fs.Stat(fsys, string(c)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	files, err := doublestar.Glob(fsys, string(c)+"/"+Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", c, err)
	}
	return files, nil
}

func parseFile(name, dir string, data []byte) (frontMatter, Header, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, yamlFormat)
	if err != nil {
		return fm, Header{}, fmt.Errorf("%s: front matter: %w", name, err)
	}
	html, err := markdown.Compile(string(body))
	if err != nil {
		return fm, Header{}, fmt.Errorf("%s: compile: %w", name, err)
	}
	slug := fm.Slug
	if slug == "" {
		rel := strings.TrimPrefix(name, dir+"/")
		slug = strings.TrimSuffix(rel, path.Ext(rel))
	}
	published := true
	if fm.Published != nil {
		published = *fm.Published
	}
	return fm, Header{
		Slug:        NormalizeSlug(slug),
		Title:       fm.Title,
		Description: fm.Description,
		Published:   published,
		Body:        Body{Raw: string(body), HTML: html},
		Source:      name,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
