package analysis

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

// AnalyzeMatch builds the report of a dispatcher match at sel in the main
// file of ws. With opts.Preview every operation is performed in memory
// to attach its diff; a failing preview is recorded on the entry.
func AnalyzeMatch(
	ctx context.Context,
	ws *workspace.Workspace,
	sel workspace.Selection,
	result *quickfix.MatchResult,
	registry *quickfix.Registry,
	opts Options,
) (*Listing, error) {
	doc := ws.Main().Doc
	start, end, err := sel.Resolve(doc)
	if err != nil {
		return nil, err
	}
	line, col := doc.LineCol(start)

	listing := &Listing{
		Version:    ReportVersion,
		Timestamp:  time.Now(),
		Path:       makeRelativePath(doc.Path, opts.WorkingDir),
		Line:       line,
		Column:     col,
		Offset:     start,
		EndOffset:  end,
		SourceLine: doc.LineText(line),
		Operations: make([]OperationEntry, 0, len(result.Operations)),
	}

	byRule := make(map[string]int)
	for i, op := range result.Operations {
		name := ruleName(registry, op.RuleID())
		entry := OperationEntry{
			Index:       i,
			RuleID:      op.RuleID(),
			RuleName:    name,
			Rule:        opts.RuleFormat.Label(op.RuleID(), name),
			Description: op.Description(),
			Priority:    op.Priority(),
		}
		listing.Operations = append(listing.Operations, entry)

		idx, ok := byRule[op.RuleID()]
		if !ok {
			idx = len(listing.ByRule)
			byRule[op.RuleID()] = idx
			listing.ByRule = append(listing.ByRule, RuleCount{RuleID: op.RuleID(), RuleName: name})
		}
		listing.ByRule[idx].Operations++
	}

	if opts.Preview {
		if err := previewAll(ctx, ws, result.Operations, listing.Operations, opts); err != nil {
			return nil, err
		}
	}

	for id, err := range result.RuleErrors {
		listing.RuleErrors = append(listing.RuleErrors, RuleErrorEntry{RuleID: id, Error: err.Error()})
	}
	slices.SortFunc(listing.RuleErrors, func(a, b RuleErrorEntry) int {
		return cmp.Compare(a.RuleID, b.RuleID)
	})

	return listing, nil
}

// AnalyzeChanges builds the report of an applied operation.
func AnalyzeChanges(result *workspace.Result, registry *quickfix.Registry, dryRun bool, opts Options) *ChangeReport {
	name := ruleName(registry, result.RuleID)
	report := &ChangeReport{
		Version:     ReportVersion,
		RuleID:      result.RuleID,
		RuleName:    name,
		Rule:        opts.RuleFormat.Label(result.RuleID, name),
		Description: result.Description,
		DryRun:      dryRun,
		Files:       make([]FileChange, 0, len(result.Changes)),
	}

	for _, c := range result.Changes {
		fc := FileChange{
			Path:       makeRelativePath(c.Path, opts.WorkingDir),
			Written:    c.Written,
			BackupPath: makeRelativePath(c.BackupPath, opts.WorkingDir),
			Diff:       c.Diff.String(),
			DiffModel:  c.Diff,
		}
		if c.Diff != nil {
			fc.Additions = c.Diff.Additions
			fc.Deletions = c.Diff.Deletions
		}
		for _, d := range c.Diagnostics {
			fc.SyntaxErrors = append(fc.SyntaxErrors, d.Error())
		}

		report.Totals.Files++
		report.Totals.Additions += fc.Additions
		report.Totals.Deletions += fc.Deletions
		if fc.Written {
			report.Totals.Written++
		}
		report.Files = append(report.Files, fc)
	}

	return report
}

// AnalyzeRules builds the rule catalog of registry under cfg.
func AnalyzeRules(registry *quickfix.Registry, cfg *config.Config, opts Options) *Catalog {
	catalog := &Catalog{Version: ReportVersion}

	for _, rule := range registry.Rules() {
		entry := RuleEntry{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Rule:        opts.RuleFormat.Label(rule.ID(), rule.Name()),
			Description: rule.Description(),
			Enabled:     quickfix.RuleEnabled(rule, cfg),
			Tags:        rule.Tags(),
			Aliases:     registry.Aliases(rule.ID()),
			Options:     rule.DefaultOptions(),
		}
		catalog.Rules = append(catalog.Rules, entry)
		catalog.Totals.Rules++
		if entry.Enabled {
			catalog.Totals.Enabled++
		}
	}

	sortRules(catalog.Rules, opts.SortBy)
	return catalog
}

// RuleInfos converts catalog entries to the metadata used by config
// templates.
func (c *Catalog) RuleInfos() []config.RuleInfo {
	infos := make([]config.RuleInfo, 0, len(c.Rules))
	for _, r := range c.Rules {
		infos = append(infos, config.RuleInfo{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Enabled:     r.Enabled,
			Tags:        r.Tags,
			Options:     r.Options,
		})
	}
	return infos
}

func sortRules(rules []RuleEntry, by SortField) {
	switch by {
	case SortByRegistration:
	case SortByName:
		slices.SortStableFunc(rules, func(a, b RuleEntry) int {
			return cmp.Compare(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(rules, func(a, b RuleEntry) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
}

func ruleName(registry *quickfix.Registry, id string) string {
	if registry == nil {
		return ""
	}
	if rule, ok := registry.Get(id); ok {
		return rule.Name()
	}
	return ""
}
