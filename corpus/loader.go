package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// verseSchema is the JSON Schema the reference-corpus input must satisfy
// before it reaches Index construction. Validating at load time turns a
// malformed corpus file into one clear boot-time error instead of a
// confusing empty Index discovered mid-session.
const verseSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "sura_no", "page", "words"],
		"properties": {
			"id": {"type": "integer", "minimum": 0},
			"sura_no": {"type": "integer", "minimum": 1},
			"page": {"type": "integer", "minimum": 1},
			"jozz": {"type": "integer", "minimum": 0},
			"words": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

func compiledVerseSchema() (*jsonschema.Schema, error) {
	const resource = "mem://tartil/corpus/verses.schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resource, strings.NewReader(verseSchema)); err != nil {
		return nil, fmt.Errorf("corpus: compiling verse schema: %w", err)
	}
	return compiler.Compile(resource)
}

// LoadFile reads a single JSON file containing a verse array, validates it
// against the corpus schema, and builds an Index.
func LoadFile(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", path, err)
	}
	return loadBytes(raw)
}

// LoadGlob reads every file matching pattern (a doublestar pattern such as
// "data/corpus/**/*.json" for sharded per-juz corpus files), concatenates
// their verses in lexical order of the matched paths, validates each shard against the
// schema, and builds a single Index over the union.
func LoadGlob(pattern string) (*Index, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("corpus: bad glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("corpus: no files matched %q", pattern)
	}
	sort.Strings(matches)

	var all []Verse
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("corpus: reading %s: %w", path, err)
		}
		verses, err := decodeAndValidate(raw)
		if err != nil {
			return nil, fmt.Errorf("corpus: %s: %w", filepath.Base(path), err)
		}
		all = append(all, verses...)
	}
	return New(all)
}

func loadBytes(raw []byte) (*Index, error) {
	verses, err := decodeAndValidate(raw)
	if err != nil {
		return nil, err
	}
	return New(verses)
}

func decodeAndValidate(raw []byte) ([]Verse, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("corpus: invalid JSON: %w", err)
	}

	schema, err := compiledVerseSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("corpus: schema validation failed: %w", err)
	}

	var verses []Verse
	if err := json.Unmarshal(raw, &verses); err != nil {
		return nil, fmt.Errorf("corpus: decoding verses: %w", err)
	}
	return verses, nil
}
