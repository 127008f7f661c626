package jiter_test

import (
	"encoding/json"
	"testing"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"

	"github.com/pydantic/jiter"
)

// benchDoc is a modest representative payload: a mix of strings, numbers,
// a nested array, and a nested object, the same shape the teacher's own
// benchmarks exercise against its competing-library suite.
var benchDoc = []byte(`{
	"id": 1234567,
	"name": "widget-factory",
	"active": true,
	"score": 12.5,
	"tags": ["red", "green", "blue", "alpha-quality"],
	"meta": {"owner": "team-core", "retries": 3, "ratio": 0.375}
}`)

func BenchmarkParse_jiter(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jiter.Parse(benchDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_encodingJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := json.Unmarshal(benchDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_sonic(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := sonic.Unmarshal(benchDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_jsoniter(b *testing.B) {
	b.ReportAllocs()
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v any
		if err := api.Unmarshal(benchDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkIterator_jiter measures the pull-parser path against a query
// that only needs one field, the case it exists to make cheap.
func BenchmarkIterator_jiter(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		it := jiter.NewIterator(benchDoc)
		key, has, err := it.NextObject()
		if err != nil {
			b.Fatal(err)
		}
		for has {
			if key == "name" {
				if _, err := it.NextStr(); err != nil {
					b.Fatal(err)
				}
			} else {
				if err := it.NextSkip(); err != nil {
					b.Fatal(err)
				}
			}
			key, has, err = it.NextKey()
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
