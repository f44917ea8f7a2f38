// Package toolchain runs generated code through the real, already-installed
// compiler or interpreter for a language. The framework's value is upstream
// of execution; the installed toolchain is ground truth for correctness.
package toolchain

import (
	"sort"
	"strings"
)

// Spec is the command table for one language. Argv templates may use the
// placeholders {src} (source file), {bin} (output binary path, no extension)
// and {dir} (the scratch directory).
type Spec struct {
	Name             string   `toml:"name"`
	Extension        string   `toml:"extension"`
	FileName         string   `toml:"file_name"` // optional; default "main" + Extension
	CompileCmd       []string `toml:"compile_cmd"`
	RunCmd           []string `toml:"run_cmd"`
	NeedsCompileStep bool     `toml:"needs_compile_step"`
}

// SourceFileName returns the file name the adapter writes the code to.
func (s Spec) SourceFileName() string {
	if s.FileName != "" {
		return s.FileName
	}
	return "main" + s.Extension
}

func expandArgv(argv []string, src, bin, dir string) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		arg = strings.ReplaceAll(arg, "{src}", src)
		arg = strings.ReplaceAll(arg, "{bin}", bin)
		arg = strings.ReplaceAll(arg, "{dir}", dir)
		out[i] = arg
	}
	return out
}

// builtins is the table-driven replacement for one execute override per
// language: same adapter, different commands.
var builtins = map[string]Spec{
	"c": {
		Name: "c", Extension: ".c", NeedsCompileStep: true,
		CompileCmd: []string{"gcc", "{src}", "-o", "{bin}"},
		RunCmd:     []string{"{bin}"},
	},
	"cpp": {
		Name: "cpp", Extension: ".cpp", NeedsCompileStep: true,
		CompileCmd: []string{"g++", "{src}", "-o", "{bin}"},
		RunCmd:     []string{"{bin}"},
	},
	"csharp": {
		Name: "csharp", Extension: ".cs", NeedsCompileStep: true,
		CompileCmd: []string{"mcs", "{src}", "-out:{bin}"},
		RunCmd:     []string{"mono", "{bin}"},
	},
	"go": {
		Name: "go", Extension: ".go",
		RunCmd: []string{"go", "run", "{src}"},
	},
	"java": {
		Name: "java", Extension: ".java", FileName: "Main.java", NeedsCompileStep: true,
		CompileCmd: []string{"javac", "{src}"},
		RunCmd:     []string{"java", "-cp", "{dir}", "Main"},
	},
	"javascript": {
		Name: "javascript", Extension: ".js",
		RunCmd: []string{"node", "{src}"},
	},
	"jython": {
		Name: "jython", Extension: ".py",
		RunCmd: []string{"jython", "{src}"},
	},
	"kotlin": {
		Name: "kotlin", Extension: ".kt", NeedsCompileStep: true,
		CompileCmd: []string{"kotlinc", "{src}", "-include-runtime", "-d", "{bin}.jar"},
		RunCmd:     []string{"java", "-jar", "{bin}.jar"},
	},
	"php": {
		Name: "php", Extension: ".php",
		RunCmd: []string{"php", "{src}"},
	},
	"python": {
		Name: "python", Extension: ".py",
		RunCmd: []string{"python3", "{src}"},
	},
	"r": {
		Name: "r", Extension: ".r",
		RunCmd: []string{"Rscript", "{src}"},
	},
	"ruby": {
		Name: "ruby", Extension: ".rb",
		RunCmd: []string{"ruby", "{src}"},
	},
	"rust": {
		Name: "rust", Extension: ".rs", NeedsCompileStep: true,
		CompileCmd: []string{"rustc", "{src}", "-o", "{bin}"},
		RunCmd:     []string{"{bin}"},
	},
	"swift": {
		Name: "swift", Extension: ".swift",
		RunCmd: []string{"swift", "{src}"},
	},
	"typescript": {
		Name: "typescript", Extension: ".ts",
		RunCmd: []string{"ts-node", "{src}"},
	},
}

// Builtin returns the builtin command table entry for a language id.
func Builtin(id string) (Spec, bool) {
	s, ok := builtins[id]
	return s, ok
}

// BuiltinIDs returns the sorted ids of all builtin languages.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
