package hookwasm

import (
	"context"
	"testing"

	"github.com/corekit/appcore/app"
)

// emptyModule is the smallest valid wasm binary: magic and version,
// no sections, no exports.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestLoad_EmptyModule(t *testing.T) {
	ctx := context.Background()
	mod, err := Load(ctx, emptyModule)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer mod.Close(ctx)

	if _, ok := mod.Hook(ExportRenderFrame); ok {
		t.Fatal("empty module should export no hooks")
	}
	if _, ok := mod.Hook("anything"); ok {
		t.Fatal("empty module should export no hooks")
	}
}

func TestLoad_InvalidBytes(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, []byte("not a wasm module"))
	if err == nil {
		t.Fatal("Load should fail on invalid bytes")
	}
}

func TestBind_NothingToBind(t *testing.T) {
	ctx := context.Background()
	mod, err := Load(ctx, emptyModule)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer mod.Close(ctx)

	// Bind against a throwaway builder: no exports, nothing bound.
	if n := mod.Bind(app.New(100, 100, "t")); n != 0 {
		t.Fatalf("Bind bound %d hooks from an empty module", n)
	}
}
