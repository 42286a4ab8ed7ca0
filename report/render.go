// ABOUTME: HTML report rendering for the daily CRM summary mail
// ABOUTME: Builds the sectioned document from aggregates, diffs, and insight results
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/harperreed/crmdigest/crm"
	"github.com/harperreed/crmdigest/insights"
	"github.com/harperreed/crmdigest/models"
)

// Data is everything the report template needs for one cycle.
type Data struct {
	Date     time.Time
	ReportID string
	Currency string

	Summary       crm.Summary
	Picks         []models.Opportunity
	BrandsByOwner map[string][]crm.BrandRank
	HighValue     []models.Opportunity
	Won           []models.Opportunity
	Lost          []models.Opportunity

	// Change lists are display-limited; totals come from the
	// untruncated diff so headings can say "(N total)".
	NewOpps     []models.Opportunity
	NewTotal    int
	NoteChanges []models.NoteChange
	NoteTotal   int

	Insights insights.Result
}

// Render produces the full HTML document for the summary mail.
func Render(d Data) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"money": func(v float64) string { return formatMoney(d.Currency, v) },
		"clip":  clip,
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"safe":  func(s string) template.HTML { return template.HTML(s) },
	}).Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return sb.String(), nil
}

// formatMoney renders a value with thousands separators, e.g. "RM 1,250,000.50".
func formatMoney(currency string, v float64) string {
	if currency == "" {
		currency = "RM"
	}

	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return currency + " " + sign + grouped.String() + frac
}

// clip truncates free text for table cells, appending an ellipsis.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

const reportTemplate = `<html>
<head>
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1a1a1a; line-height: 1.6; background-color: #f9fafb; margin: 0; padding: 20px; }
  .container { max-width: 800px; margin: 0 auto; background: #ffffff; padding: 30px; border-radius: 12px; border: 1px solid #e5e7eb; box-shadow: 0 4px 6px rgba(0,0,0,0.05); }
  h1 { color: #1f2937; border-bottom: 2px solid #3b82f6; padding-bottom: 10px; font-size: 24px; }
  h2 { color: #2563eb; font-size: 18px; margin-top: 30px; text-transform: uppercase; letter-spacing: 0.05em; border-left: 4px solid #2563eb; padding-left: 12px; }
  h3 { color: #4b5563; font-size: 16px; margin-bottom: 10px; }
  .metric-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 15px; margin: 20px 0; }
  .metric-card { background: #f3f4f6; padding: 15px; border-radius: 8px; border-left: 4px solid #3b82f6; }
  .metric-label { font-size: 12px; color: #6b7280; text-transform: uppercase; }
  .metric-value { font-size: 20px; font-weight: bold; color: #111827; }
  table { width: 100%; border-collapse: collapse; margin: 15px 0; font-size: 13px; }
  th { background: #f9fafb; color: #4b5563; text-align: left; padding: 12px; border-bottom: 2px solid #e5e7eb; }
  td { padding: 12px; border-bottom: 1px solid #f3f4f6; vertical-align: top; }
  .won { background: #dcfce7; color: #166534; }
  .lost { background: #fee2e2; color: #991b1b; }
  .price { font-family: 'Courier New', Courier, monospace; font-weight: bold; color: #059669; }
  .ai-box { background: #eff6ff; border: 1px solid #bfdbfe; padding: 20px; border-radius: 8px; margin-top: 20px; }
  .ai-title { color: #1e40af; font-weight: bold; margin-bottom: 10px; }
  .ai-fallback { color: #ef4444; }
  .note { font-size: 12px; color: #6b7280; font-style: italic; }
  .footer { margin-top: 40px; font-size: 12px; color: #9ca3af; text-align: center; border-top: 1px solid #e5e7eb; padding-top: 20px; }
</style>
</head>
<body>
  <div class="container">
    <h1>CRM Summary: {{.Date.Format "January 02, 2006"}}</h1>

{{if .Picks}}    <h2>Top Opportunity Picks</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Value</th><th>Brand</th><th>Product</th><th>Note</th></tr></thead>
      <tbody>
{{range .Picks}}        <tr><td><strong>{{.Account}}</strong></td><td>{{.Owner}}</td><td class="price">{{money .Value}}</td><td>{{.Brand}}</td><td>{{.Product}}</td><td class="note">{{clip .Note 150}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
    <h2>Executive Overview</h2>
    <div class="metric-grid">
      <div class="metric-card"><div class="metric-label">Combined Total Deals</div><div class="metric-value">{{.Summary.TotalDeals}}</div></div>
      <div class="metric-card"><div class="metric-label">Pipeline Value</div><div class="metric-value">{{money .Summary.TotalValue}}</div></div>
      <div class="metric-card"><div class="metric-label">Open Pipeline</div><div class="metric-value">{{.Summary.OpenCount}}</div></div>
      <div class="metric-card"><div class="metric-label">Win/Loss Ratio</div><div class="metric-value">{{pct .Summary.WinLossRatio}}</div></div>
    </div>

    <h2>Side-by-Side Performance</h2>
{{range $owner := .Summary.Owners}}{{with index $.Summary.PerOwner $owner}}    <div class="metric-card" style="margin-bottom: 10px;">
      <h3 style="margin: 0;">{{$owner}}</h3>
      <div style="display: flex; justify-content: space-between; font-size: 13px; margin-top: 10px;">
        <span>Deals: <strong>{{.DealCount}}</strong></span>
        <span>Value: <strong class="price">{{money .TotalValue}}</strong></span>
        <span>Open: <strong>{{.OpenCount}}</strong></span>
        <span>Won/Lost: <span class="won">{{.WonCount}}</span> / <span class="lost">{{.LostCount}}</span></span>
      </div>
    </div>
{{end}}{{end}}
{{if .BrandsByOwner}}    <h2>Top Brands</h2>
    <div style="display: flex; gap: 20px;">
{{range $owner := .Summary.Owners}}      <div style="flex: 1; background: #f9fafb; padding: 15px; border-radius: 8px;">
        <h3 style="margin-top: 0; font-size: 14px;">{{$owner}}</h3>
        <ul style="padding-left: 20px; margin: 0; font-size: 13px;">
{{range index $.BrandsByOwner $owner}}          <li>{{.Brand}}: <strong>{{.Count}}</strong></li>
{{end}}        </ul>
      </div>
{{end}}    </div>
{{end}}
{{if .NewOpps}}    <h2>New Opportunities Added ({{.NewTotal}} total)</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Value</th><th>Brand</th><th>Product</th></tr></thead>
      <tbody>
{{range .NewOpps}}        <tr><td><strong>{{.Account}}</strong></td><td>{{.Owner}}</td><td class="price">{{money .Value}}</td><td>{{.Brand}}</td><td>{{.Product}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
{{if .NoteChanges}}    <h2>Progress Note Updates ({{.NoteTotal}} total)</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Brand</th><th>Previous Note</th><th>Latest Note</th></tr></thead>
      <tbody>
{{range .NoteChanges}}        <tr><td><strong>{{.Account}}</strong></td><td>{{.Owner}}</td><td>{{.Brand}}</td><td class="note">{{clip .PreviousNote 200}}</td><td class="note">{{clip .NewNote 200}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
{{if .HighValue}}    <h2>High-Value Action Items</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Value</th><th>Brand</th><th>Product</th><th>Note</th></tr></thead>
      <tbody>
{{range .HighValue}}        <tr><td>{{.Account}}</td><td>{{.Owner}}</td><td class="price">{{money .Value}}</td><td>{{.Brand}}</td><td>{{.Product}}</td><td class="note">{{clip .Note 100}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
{{if .Won}}    <h2>Recent Won Deals</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Brand</th><th>Product</th><th>Value</th></tr></thead>
      <tbody>
{{range .Won}}        <tr><td>{{.Account}}</td><td>{{.Owner}}</td><td>{{.Brand}}</td><td>{{.Product}}</td><td class="price">{{money .Value}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
{{if .Lost}}    <h2>Lost Deals</h2>
    <table>
      <thead><tr><th>Account</th><th>Owner</th><th>Value</th><th>Competitor</th></tr></thead>
      <tbody>
{{range .Lost}}        <tr><td>{{.Account}}</td><td>{{.Owner}}</td><td class="price">{{money .Value}}</td><td>{{if .Competitor}}{{.Competitor}}{{else}}Unknown{{end}}</td></tr>
{{end}}      </tbody>
    </table>
{{end}}
    <div class="ai-box">
      <div class="ai-title">AI Strategic Insights</div>
      <div style="font-size: 14px; color: #1e3a8a;">
{{if .Insights.OK}}        {{safe .Insights.HTML}}
{{else}}        <p class="ai-fallback">AI analysis currently unavailable: {{.Insights.Reason}}</p>
{{end}}      </div>
    </div>

    <div class="footer">
      Automated CRM Analysis &bull; Report {{.ReportID}}
    </div>
  </div>
</body>
</html>
`
