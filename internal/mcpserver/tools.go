package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/akolanti/kbcurator/internal/probe"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ClassifyFileInput struct {
	Path      string `json:"path" jsonschema:"path of the file to classify; it does not need to exist"`
	SizeBytes *int64 `json:"size_bytes,omitempty" jsonschema:"file size in bytes, read from disk when omitted"`
}

type ClassifyFileOutput struct {
	Descriptor     fileModel.FileDescriptor       `json:"descriptor"`
	Classification fileModel.ClassificationResult `json:"classification"`
}

type ValidateChipsInput struct {
	Content  string `json:"content" jsonschema:"chip records as JSON lines"`
	Schema   string `json:"schema,omitempty" jsonschema:"strict, kbv6-compat or legacy (default strict)"`
	FileName string `json:"file_name,omitempty" jsonschema:"name the records are reported under"`
}

type ValidateChipsOutput struct {
	Passed bool             `json:"passed"`
	Report chipModel.Report `json:"report"`
}

type ProbeChipsInput struct {
	Chips     string        `json:"chips" jsonschema:"chips as a JSON array or JSON lines"`
	Queries   []probe.Query `json:"queries" jsonschema:"probe queries with id and text"`
	Threshold *float64      `json:"threshold,omitempty" jsonschema:"minimum top-1 score for a query to pass (default 0.10)"`
}

type ProbeChipsOutput struct {
	Passed bool         `json:"passed"`
	Result probe.Result `json:"result"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_file",
		Description: "Classify a file path into its v4 bucket and recommended target path",
	}, s.handleClassifyFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_chips",
		Description: "Validate chip records (JSON lines) against a chip schema and report per-record errors",
	}, s.handleValidateChips)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "probe_chips",
		Description: "Score probe queries against chips with token Jaccard similarity and apply the top-1 gate",
	}, s.handleProbeChips)
}

func (s *Server) handleClassifyFile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyFileInput,
) (*mcp.CallToolResult, ClassifyFileOutput, error) {
	if input.Path == "" {
		return nil, ClassifyFileOutput{}, errors.New("path is required")
	}
	var size int64
	if input.SizeBytes != nil {
		size = *input.SizeBytes
	} else if st, err := os.Stat(input.Path); err == nil {
		size = st.Size()
	}

	fd := inventory.Describe(input.Path, size)
	return nil, ClassifyFileOutput{
		Descriptor:     fd,
		Classification: s.curation.ClassifyFile(fd),
	}, nil
}

func (s *Server) handleValidateChips(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateChipsInput,
) (*mcp.CallToolResult, ValidateChipsOutput, error) {
	report, err := s.curation.Validate(ctx, curation.ValidateRequest{
		Batch:    "mcp",
		FileName: input.FileName,
		Schema:   input.Schema,
		Content:  input.Content,
	})
	if err != nil {
		return nil, ValidateChipsOutput{}, fmt.Errorf("validate chips: %w", err)
	}
	s.logger.Debug("validate_chips", "total", report.Summary.Total, "invalid", report.Summary.Invalid)
	return nil, ValidateChipsOutput{Passed: report.Passed(), Report: report}, nil
}

func (s *Server) handleProbeChips(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ProbeChipsInput,
) (*mcp.CallToolResult, ProbeChipsOutput, error) {
	if len(input.Queries) == 0 {
		return nil, ProbeChipsOutput{}, errors.New("at least one query is required")
	}
	threshold := config.ProbeDefaultThreshold
	if input.Threshold != nil {
		threshold = *input.Threshold
	}

	objs := chips.ParseAny([]byte(input.Chips))
	parsed := make([]chipModel.Chip, 0, len(objs))
	for _, o := range objs {
		parsed = append(parsed, chipModel.FromFields(o))
	}

	res := probe.Run(input.Queries, parsed, config.ProbeTopK, threshold)
	return nil, ProbeChipsOutput{Passed: res.Passed(), Result: res}, nil
}
