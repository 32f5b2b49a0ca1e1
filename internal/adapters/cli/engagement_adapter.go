// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/see/internal/ports/primary"
)

// EngagementAdapter is a thin adapter that translates CLI operations to
// EngagementService calls.
type EngagementAdapter struct {
	service primary.EngagementService
	out     io.Writer
}

// NewEngagementAdapter creates a new EngagementAdapter with the given service.
func NewEngagementAdapter(service primary.EngagementService, out io.Writer) *EngagementAdapter {
	return &EngagementAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new engagement.
func (a *EngagementAdapter) Create(ctx context.Context, req primary.CreateEngagementRequest) (*primary.Engagement, error) {
	eng, err := a.service.CreateEngagement(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created engagement %s: %s\n", eng.ID, eng.DisplayName())
	fmt.Fprintf(a.out, "  Status: %s  Locale: %s\n", eng.Status, eng.Locale)
	return eng, nil
}

// List lists engagements with an optional status filter.
func (a *EngagementAdapter) List(ctx context.Context, status string) error {
	engagements, err := a.service.ListEngagements(ctx, primary.EngagementFilters{Status: status})
	if err != nil {
		return fmt.Errorf("failed to list engagements: %w", err)
	}

	if len(engagements) == 0 {
		fmt.Fprintln(a.out, "No engagements found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCOMPANY\tNAME\tDATES")
	fmt.Fprintln(w, "--\t------\t-------\t----\t-----")
	for _, e := range engagements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, StatusLabel(e.Status), e.CompanyName, dash(e.Name), dateRange(e.StartDate, e.EndDate))
	}
	return w.Flush()
}

// Show displays details for a single engagement.
func (a *EngagementAdapter) Show(ctx context.Context, engagementID string) (*primary.Engagement, error) {
	eng, err := a.service.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}

	fmt.Fprintf(a.out, "\nEngagement: %s\n", eng.ID)
	fmt.Fprintf(a.out, "Company:    %s\n", eng.CompanyName)
	if eng.Name != "" {
		fmt.Fprintf(a.out, "Name:       %s\n", eng.Name)
	}
	fmt.Fprintf(a.out, "Status:     %s\n", StatusLabel(eng.Status))
	fmt.Fprintf(a.out, "Locale:     %s\n", eng.Locale)
	if eng.Industry != "" {
		fmt.Fprintf(a.out, "Industry:   %s\n", eng.Industry)
	}
	if eng.ClientContact != "" {
		fmt.Fprintf(a.out, "Contact:    %s\n", eng.ClientContact)
	}
	fmt.Fprintf(a.out, "Dates:      %s\n", dateRange(eng.StartDate, eng.EndDate))
	for _, f := range []struct{ label, value string }{
		{"Context", eng.BusinessContext},
		{"Goals", eng.Goals},
		{"Constraints", eng.Constraints},
		{"Success", eng.SuccessDefinition},
	} {
		if f.value != "" {
			fmt.Fprintf(a.out, "%s:\n  %s\n", f.label, f.value)
		}
	}
	fmt.Fprintf(a.out, "Created:    %s\n", eng.CreatedAt)
	if eng.ClosedAt != "" {
		fmt.Fprintf(a.out, "Closed:     %s\n", eng.ClosedAt)
	}
	fmt.Fprintln(a.out)

	return eng, nil
}

// Update updates the descriptive fields of an engagement.
func (a *EngagementAdapter) Update(ctx context.Context, req primary.UpdateEngagementRequest) error {
	if _, err := a.service.UpdateEngagement(ctx, req); err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Engagement %s updated\n", req.EngagementID)
	return nil
}

// Activate moves a DRAFT engagement to ACTIVE.
func (a *EngagementAdapter) Activate(ctx context.Context, engagementID string) error {
	if err := a.service.ActivateEngagement(ctx, engagementID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Engagement %s activated\n", engagementID)
	return nil
}

// Close closes an ACTIVE engagement.
func (a *EngagementAdapter) Close(ctx context.Context, engagementID string) error {
	if err := a.service.CloseEngagement(ctx, engagementID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Engagement %s closed\n", engagementID)
	return nil
}

// Reopen moves a CLOSED engagement back to ACTIVE.
func (a *EngagementAdapter) Reopen(ctx context.Context, engagementID string) error {
	if err := a.service.ReopenEngagement(ctx, engagementID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Engagement %s reopened\n", engagementID)
	return nil
}

// Delete deletes an engagement and everything recorded under it.
func (a *EngagementAdapter) Delete(ctx context.Context, engagementID string) error {
	// Get engagement details before deleting (for output)
	eng, err := a.service.GetEngagement(ctx, engagementID)
	if err != nil {
		return fmt.Errorf("failed to get engagement: %w", err)
	}

	if err := a.service.DeleteEngagement(ctx, engagementID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Deleted engagement %s: %s\n", eng.ID, eng.DisplayName())
	return nil
}

// Audit prints the audit trail of an engagement, newest first.
func (a *EngagementAdapter) Audit(ctx context.Context, engagementID string, limit int) error {
	entries, err := a.service.ListAudit(ctx, engagementID, limit)
	if err != nil {
		return fmt.Errorf("failed to list audit trail: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tENTITY\tCHANGE")
	fmt.Fprintln(w, "----\t-----\t------\t------\t------")
	for _, e := range entries {
		change := "-"
		if e.FieldName != "" {
			change = fmt.Sprintf("%s: %s → %s", e.FieldName, dash(e.OldValue), dash(e.NewValue))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n", e.CreatedAt, dash(e.Actor), e.Action, e.EntityType, e.EntityID, change)
	}
	return w.Flush()
}
