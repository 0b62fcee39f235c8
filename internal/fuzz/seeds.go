package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"tokensniff/internal/config"
	"tokensniff/internal/token"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 16 << 10
)

// addCorpusSeeds adds the rule fixtures of grammar g plus a few fixed
// snippets. Seeds are (input, fragment) pairs.
func addCorpusSeeds(f *testing.F, g token.Grammar) {
	cfg := config.Default()
	root := filepath.Join("..", "rules", "testdata")
	// проходим по дереву fixtures, берём файлы нужной грамматики
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if fg, ok := cfg.Grammar(path); !ok || fg != g {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src), false)
		return nil
	})

	f.Add([]byte{}, false)
	switch g {
	case token.PHP:
		f.Add([]byte("<?php\nif ($a):\n  echo 1;\nelseif ($b):\nelse:\nendif;\n"), false)
		f.Add([]byte("<?php\n$s = <<<EOT\nx {$a['b']} y\nEOT;\n"), false)
		f.Add([]byte("switch ($a) { case 1: case 2: f(); break; default: }"), true)
		f.Add([]byte("<?php\n}\n"), false)
		f.Add([]byte("<?php\n\"unterminated"), false)
	case token.JS:
		f.Add([]byte("var r = /a[/]b/g; x = a ? b : c ?: d;\n"), false)
		f.Add([]byte("`a ${ `b ${c}` } d`\n"), false)
		f.Add([]byte("if (a) b(); else { c(); }\n"), false)
	case token.CSS:
		f.Add([]byte("a{color:#ABC;background:url(x.png)!important}\n@media(max-width:1px){b{}}\n"), false)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
