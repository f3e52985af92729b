package filter

import (
	"fmt"
	"testing"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// generateTestResponses creates search bodies of varying shape
func generateTestResponses(count int) []seeksphere.Response {
	responses := make([]seeksphere.Response, count)

	for i := 0; i < count; i++ {
		results := make([]any, i%5)
		for j := range results {
			results[j] = map[string]any{"id": float64(j)}
		}
		responses[i] = seeksphere.Response{
			"success": i%3 != 0,
			"org_id":  fmt.Sprintf("org-%d", i%4),
			"mode":    []string{"sql_only", "full"}[i%2],
			"results": results,
		}
	}

	return responses
}

func BenchmarkCompile(b *testing.B) {
	expressions := []struct {
		name string
		expr string
	}{
		{"simple", `success`},
		{"complex", `success and mode == "full" and len(results) > 2`},
	}

	for _, tc := range expressions {
		b.Run(tc.name, func(b *testing.B) {
			compiler := NewCompiler(WithCache(0))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := compiler.Compile(tc.expr); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompileCached(b *testing.B) {
	compiler := NewCompiler()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := compiler.Compile(`success and mode == "full"`); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	responses := generateTestResponses(1000)
	f := MustCompile(`success and mode == "full" and len(results) > 2`)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Match(responses[i%len(responses)]); err != nil {
			b.Fatal(err)
		}
	}
}
