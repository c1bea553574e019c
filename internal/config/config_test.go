package config

import "testing"

func TestParseDefaultsSrcDir(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SrcDir != "src" {
		t.Fatalf("expected default srcDir \"src\", got %q", cfg.SrcDir)
	}
}

func TestParseHonorsExplicitSrcDir(t *testing.T) {
	cfg, err := Parse([]byte(`{"srcDir": "components"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SrcDir != "components" {
		t.Fatalf("expected srcDir \"components\", got %q", cfg.SrcDir)
	}
}

func TestParseModuleDirsAndCompilerOptions(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"moduleDirs": ["node_modules/@paperclip"],
		"compilerOptions": [{"emit": ["vdom", "css"], "outDir": "dist"}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ModuleDirs) != 1 || cfg.ModuleDirs[0] != "node_modules/@paperclip" {
		t.Fatalf("expected one moduleDir, got %v", cfg.ModuleDirs)
	}
	if len(cfg.CompilerOptions) != 1 || len(cfg.CompilerOptions[0].Emit) != 2 || cfg.CompilerOptions[0].OutDir != "dist" {
		t.Fatalf("expected one compilerOptions entry with emit=[vdom,css] outDir=dist, got %+v", cfg.CompilerOptions)
	}
}

func TestParseInvalidJSONErrors(t *testing.T) {
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatalf("expected an error parsing invalid JSON")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Config{SrcDir: "src", ModuleDirs: []string{"vendor"}}
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roundTripped, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error reparsing marshaled config: %v", err)
	}
	if roundTripped.SrcDir != cfg.SrcDir || len(roundTripped.ModuleDirs) != 1 || roundTripped.ModuleDirs[0] != "vendor" {
		t.Fatalf("expected round-tripped config to match original, got %+v", roundTripped)
	}
}
