package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

func registerFileTools(reg *tool.Registry, deps Deps) error {
	tools := []*types.Tool{
		{
			Name:        "fs_read",
			Description: "Read a file's content with metadata, optionally a line range",
			Category:    tool.CategoryFile,
			Parameters: types.ParamSchema{
				"file_path":  {Type: "string", Required: true, Description: "Path of the file to read"},
				"start_line": {Type: "integer", Description: "First line to include (1-based)"},
				"end_line":   {Type: "integer", Description: "Last line to include (inclusive)"},
			},
			Example: `fs_read file_path=main.go start_line=1 end_line=40`,
			Handler: fsRead(deps),
		},
		{
			Name:        "fs_create",
			Description: "Create a new file, with given content or AI-generated from a description",
			Category:    tool.CategoryFile,
			Parameters: types.ParamSchema{
				"file_path":   {Type: "string", Required: true, Description: "Path of the file to create"},
				"content":     {Type: "string", Description: "Literal content to write"},
				"description": {Type: "string", Description: "What the file should contain; used to generate content when none is given"},
				"backup":      {Type: "boolean", Description: "Override the configured backup preference"},
			},
			Example: `fs_create file_path=hello.py description="hello world script"`,
			Handler: fsCreate(deps),
		},
		{
			Name:        "fs_write",
			Description: "Write content to a file, backing up any existing version",
			Category:    tool.CategoryFile,
			Parameters: types.ParamSchema{
				"file_path": {Type: "string", Required: true, Description: "Path of the file to write"},
				"content":   {Type: "string", Required: true, Description: "Content to write"},
				"backup":    {Type: "boolean", Description: "Override the configured backup preference"},
			},
			Handler: fsWrite(deps),
		},
		{
			Name:        "fs_search",
			Description: "Search a directory tree by file name, extension and content",
			Category:    tool.CategoryFile,
			Parameters: types.ParamSchema{
				"directory":      {Type: "string", Required: true, Description: "Directory to search"},
				"pattern":        {Type: "string", Description: "Case-insensitive regex matched against file names"},
				"file_type":      {Type: "string", Description: "File extension filter, with or without the leading dot"},
				"content_search": {Type: "string", Description: "Case-insensitive regex matched against file content"},
			},
			Example: `fs_search directory=. file_type=go content_search="func main"`,
			Handler: fsSearch(deps),
		},
		{
			Name:        "fs_remove",
			Description: "Delete a file after capturing a backup",
			Category:    tool.CategoryFile,
			Parameters: types.ParamSchema{
				"file_path": {Type: "string", Required: true, Description: "Path of the file to delete"},
				"backup":    {Type: "boolean", Description: "Override the configured backup preference"},
			},
			Handler: fsRemove(deps),
		},
		{
			Name:        "fs_undo",
			Description: "Reverse the most recent file operation",
			Category:    tool.CategoryFile,
			Parameters:  types.ParamSchema{},
			Handler: func(ctx context.Context, args types.Args) (any, error) {
				return deps.Engine.UndoLast()
			},
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func fsRead(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		res, err := deps.Engine.Read(path)
		if err != nil {
			return nil, err
		}

		start, hasStart := args.Int("start_line")
		end, hasEnd := args.Int("end_line")
		if hasStart || hasEnd {
			lines := strings.Split(res.Content, "\n")
			if !hasStart || start < 1 {
				start = 1
			}
			if !hasEnd || end > len(lines) {
				end = len(lines)
			}
			if start > end {
				return nil, fmt.Errorf("invalid line range %d..%d", start, end)
			}
			res.Content = strings.Join(lines[start-1:end], "\n")
		}
		return res, nil
	}
}

func fsCreate(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		content, hasContent := args.String("content")

		if !hasContent || content == "" {
			desc, hasDesc := args.String("description")
			if !hasDesc || desc == "" {
				return nil, fmt.Errorf("either content or description is required")
			}
			if deps.Gateway == nil {
				return nil, fmt.Errorf("no provider configured for content generation: %w", apperr.ErrExternalService)
			}
			generated, err := generateFileContent(ctx, deps, path, desc)
			if err != nil {
				return nil, err
			}
			content = generated
		}

		return deps.Engine.Write(path, content, boolArg(args, "backup"))
	}
}

// generateFileContent asks the provider for file content matching a
// description, stripping any markdown fences from the answer.
func generateFileContent(ctx context.Context, deps Deps, path, desc string) (string, error) {
	lang := engine.LanguageFor(path)
	system := "You generate complete file contents. Respond with only the file content, no explanations."
	prompt := fmt.Sprintf("Create the content of a %s file named %s: %s", lang, path, desc)
	answer, err := deps.Gateway.Ask(ctx, prompt, system, "")
	if err != nil {
		return "", err
	}
	return extractCode(answer), nil
}

// extractCode strips a single surrounding markdown code fence, if any.
func extractCode(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:] // drop opening fence with optional language tag
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			lines = lines[:i]
			break
		}
	}
	return strings.Join(lines, "\n")
}

func fsWrite(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		content, _ := args.String("content")
		return deps.Engine.Write(path, content, boolArg(args, "backup"))
	}
}

func fsSearch(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		dir, _ := args.String("directory")
		filter := engine.SearchFilter{}
		filter.NamePattern, _ = args.String("pattern")
		filter.Extension, _ = args.String("file_type")
		filter.ContentPattern, _ = args.String("content_search")

		matches, err := deps.Engine.Search(dir, filter)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"directory": dir,
			"count":     len(matches),
			"matches":   matches,
		}, nil
	}
}

func fsRemove(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		path, _ := args.String("file_path")
		return deps.Engine.Remove(path, boolArg(args, "backup"))
	}
}

// boolArg returns a pointer when the argument is present, nil when the
// caller wants the configured default.
func boolArg(args types.Args, key string) *bool {
	if v, ok := args.Bool(key); ok {
		return &v
	}
	return nil
}
