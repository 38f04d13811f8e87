package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

func registerCodeTools(reg *tool.Registry, deps Deps) error {
	tools := []*types.Tool{
		{
			Name:        "code_analyze",
			Description: "Analyze a source file's structure, optionally with AI insights",
			Category:    tool.CategoryCode,
			Parameters: types.ParamSchema{
				"file_path": {Type: "string", Required: true, Description: "Path of the source file"},
				"insights":  {Type: "boolean", Description: "Ask the provider to comment on the code"},
			},
			Handler: codeAnalyze(deps),
		},
		{
			Name:        "code_modify",
			Description: "Apply a described modification to a source file",
			Category:    tool.CategoryCode,
			Parameters: types.ParamSchema{
				"file_path":    {Type: "string", Required: true, Description: "Path of the source file"},
				"modification": {Type: "string", Required: true, Description: "What to change"},
				"backup":       {Type: "boolean", Description: "Override the configured backup preference"},
			},
			Example: `code_modify file_path=main.go modification="add error handling to run()"`,
			Handler: codeModify(deps),
		},
		{
			Name:        "code_review",
			Description: "Review a source file for bugs, style and improvements",
			Category:    tool.CategoryCode,
			Parameters: types.ParamSchema{
				"file_path": {Type: "string", Required: true, Description: "Path of the source file"},
				"focus":     {Type: "string", Description: "Aspect to concentrate on (bugs, style, performance)"},
			},
			Handler: codeReview(deps),
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// structure counts extracted from source with per-language patterns.
type codeStructure struct {
	Language  string   `json:"language"`
	Lines     int      `json:"lines"`
	Functions []string `json:"functions"`
	Types     []string `json:"types"`
	Imports   int      `json:"imports"`
}

var structurePatterns = map[string]struct {
	function *regexp.Regexp
	typeDecl *regexp.Regexp
	importRe *regexp.Regexp
}{
	"go": {
		function: regexp.MustCompile(`(?m)^func\s+(?:\([^)]*\)\s+)?(\w+)\s*\(`),
		typeDecl: regexp.MustCompile(`(?m)^type\s+(\w+)\s+`),
		importRe: regexp.MustCompile(`(?m)^\s*(?:import\s+)?"[^"]+"$|^import\s+`),
	},
	"python": {
		function: regexp.MustCompile(`(?m)^\s*def\s+(\w+)\s*\(`),
		typeDecl: regexp.MustCompile(`(?m)^\s*class\s+(\w+)`),
		importRe: regexp.MustCompile(`(?m)^\s*(?:import|from)\s+\w`),
	},
	"javascript": {
		function: regexp.MustCompile(`(?m)(?:function\s+(\w+)\s*\(|const\s+(\w+)\s*=\s*(?:async\s*)?\()`),
		typeDecl: regexp.MustCompile(`(?m)^\s*class\s+(\w+)`),
		importRe: regexp.MustCompile(`(?m)^\s*(?:import\s|const\s+\w+\s*=\s*require\()`),
	},
}

func analyzeStructure(content, language string) codeStructure {
	st := codeStructure{
		Language:  language,
		Lines:     strings.Count(content, "\n") + 1,
		Functions: []string{},
		Types:     []string{},
	}
	patterns, ok := structurePatterns[language]
	if !ok {
		if p, found := structurePatterns["javascript"]; found && language == "typescript" {
			patterns, ok = p, true
		}
	}
	if !ok {
		return st
	}

	for _, m := range patterns.function.FindAllStringSubmatch(content, -1) {
		for _, name := range m[1:] {
			if name != "" {
				st.Functions = append(st.Functions, name)
				break
			}
		}
	}
	for _, m := range patterns.typeDecl.FindAllStringSubmatch(content, -1) {
		st.Types = append(st.Types, m[1])
	}
	st.Imports = len(patterns.importRe.FindAllString(content, -1))
	return st
}

func codeAnalyze(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		res, err := deps.Engine.Read(path)
		if err != nil {
			return nil, err
		}

		st := analyzeStructure(res.Content, res.Metadata.Language)
		out := map[string]any{
			"file_path": path,
			"structure": st,
			"metadata":  res.Metadata,
		}

		if want, _ := args.Bool("insights"); want {
			if deps.Gateway == nil {
				return nil, fmt.Errorf("no provider configured for insights: %w", apperr.ErrExternalService)
			}
			system := "You are a concise code reviewer. Summarize what the code does and note anything unusual."
			prompt := fmt.Sprintf("Analyze this %s file:\n\n%s", st.Language, clip(res.Content, 12000))
			insights, err := deps.Gateway.Ask(ctx, prompt, system, "")
			if err != nil {
				return nil, err
			}
			out["insights"] = insights
		}
		return out, nil
	}
}

func codeModify(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		modification, _ := args.String("modification")

		res, err := deps.Engine.Read(path)
		if err != nil {
			return nil, err
		}
		if deps.Gateway == nil {
			return nil, fmt.Errorf("no provider configured for code modification: %w", apperr.ErrExternalService)
		}

		system := "You modify source files. Respond with the complete modified file content, no explanations."
		prompt := fmt.Sprintf("Modify this %s file as follows: %s\n\nCurrent content:\n%s",
			engine.LanguageFor(path), modification, res.Content)
		answer, err := deps.Gateway.Ask(ctx, prompt, system, "")
		if err != nil {
			return nil, err
		}
		modified := extractCode(answer)
		if strings.TrimSpace(modified) == "" {
			return nil, fmt.Errorf("provider returned empty content: %w", apperr.ErrExternalService)
		}

		return deps.Engine.Write(path, modified, boolArg(args, "backup"))
	}
}

func codeReview(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		res, err := deps.Engine.Read(path)
		if err != nil {
			return nil, err
		}
		if deps.Gateway == nil {
			return nil, fmt.Errorf("no provider configured for review: %w", apperr.ErrExternalService)
		}

		focus, _ := args.String("focus")
		system := "You are a thorough code reviewer. List concrete findings with line references."
		prompt := fmt.Sprintf("Review this %s file", res.Metadata.Language)
		if focus != "" {
			prompt += ", focusing on " + focus
		}
		prompt += ":\n\n" + clip(res.Content, 12000)

		review, err := deps.Gateway.Ask(ctx, prompt, system, "")
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"file_path": path,
			"review":    review,
		}, nil
	}
}

// clip truncates long content before sending it to a provider.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
