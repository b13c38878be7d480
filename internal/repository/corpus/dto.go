package corpus

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/resurch-labs/resurch/internal/domain"
)

// Hash field names for paper documents.
const (
	fieldTitle    = "title"
	fieldAbstract = "abstract"
	fieldURL      = "url"
	fieldVector   = "vector"
)

func paperKeyPrefix() string {
	return domain.KeyPrefix + "paper:"
}

func paperKey(id string) string {
	return paperKeyPrefix() + id
}

func paperIDFromKey(key string) string {
	return strings.TrimPrefix(key, paperKeyPrefix())
}

func indexName() string {
	return domain.KeyPrefix + "papers:idx"
}

func modelMetaKey() string {
	return domain.KeyPrefix + "corpus:model"
}

func paperToFields(p domain.Paper) map[string]string {
	fields := map[string]string{
		fieldTitle:    p.Title,
		fieldAbstract: p.Abstract,
	}
	if p.URL != "" {
		fields[fieldURL] = p.URL
	}
	return fields
}

func fieldsToPaper(id string, fields map[string]string) domain.Paper {
	return domain.Paper{
		ID:       id,
		Title:    fields[fieldTitle],
		Abstract: fields[fieldAbstract],
		URL:      fields[fieldURL],
	}
}

// vectorToBytes serializes a vector as little-endian float32 for the hash field.
func vectorToBytes(v domain.Vector) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a little-endian float32 blob.
func bytesToVector(s string) (domain.Vector, error) {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob: len=%d (not multiple of 4)", len(b))
	}
	vec := make(domain.Vector, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
