package scoring

import (
	"fmt"
	"strings"

	"github.com/octobees/crm-leads/internal/entity"
)

const promptHeader = `You are an expert sales consultant analyzing leads for a consulting services company.

=== LEAD BASIC INFORMATION ===
Company: %s
Industry: %s
Location: %s
Contact: %s
Email: %s
Website: %s

=== EMAIL ANALYSIS ===
%s

=== WEBSITE ANALYSIS ===
`

const websiteSuccessSection = `
✓ Website Successfully Analyzed: %s

Page Title: %s
Meta Description: %s

Key Content:
%s

Website Content Sample:
%s

Status: Active and accessible with %s content
`

const websiteFailureSection = `
✗ Website Analysis FAILED
Error: %s
RED FLAG: Website may be down, blocked, or non-existent.
`

const websiteAbsentSection = `
✗ NO WEBSITE PROVIDED
RED FLAG: Professional consulting companies should have websites.
`

const scoringRubric = `

=== SCORING CRITERIA ===

Score from 0-100 based on these criteria:

**Website Quality (0-30 points):**
- 30: Excellent professional site with detailed services, case studies, team info
- 20: Good professional site with clear services
- 10: Basic site with limited info
- 5: Website exists but poor quality or inaccessible
- 0: No website

**Contact Legitimacy (0-25 points):**
- 25: Professional email matching website domain + contact name
- 15: Professional email matching domain
- 10: Professional email (not generic)
- 5: Generic email (gmail, yahoo)
- 0: No valid email

**Industry Fit (0-20 points):**
- 20: Clearly consulting company (evident from website/notes)
- 10: Likely consulting but not strongly evident
- 0: Not a consulting company

**Company Legitimacy (0-15 points):**
- Based on: location, website quality, email professionalism
- 15: All indicators positive
- 10: Most indicators positive
- 5: Mixed signals
- 0: Red flags

**Information Completeness (0-10 points):**
- 10: Complete info (name, email, website, location)
- 5: Most info present
- 0: Very limited info

**Respond in this EXACT format:**

SCORE: [number 0-100]
JUSTIFICATION: [2-3 sentences explaining score based on actual website content and analysis. BE SPECIFIC.]
NEXT_ACTION: [one specific actionable next step]

Example good justification: "Score of 85 because website shows established consulting firm with case studies in manufacturing sector. Professional email domain matches website. Clear service offerings in strategy consulting with 15+ years experience stated."

Now analyze this lead:`

// BuildPrompt assembles the scoring prompt from the lead's fields, the email
// analysis and whichever website summary shape was produced. It is a pure
// template: identical inputs yield byte-identical output.
func BuildPrompt(lead *entity.Lead, emailAnalysis string, site *WebsiteSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, promptHeader,
		lead.CompanyName,
		lead.Industry,
		lead.Location,
		lead.ContactName,
		lead.ContactEmail,
		lead.Website,
		emailAnalysis,
	)

	switch {
	case site == nil:
		b.WriteString(websiteAbsentSection)
	case site.Failed():
		fmt.Fprintf(&b, websiteFailureSection, site.FetchError)
	default:
		quality := "limited"
		if site.HasContent {
			quality = "professional"
		}
		fmt.Fprintf(&b, websiteSuccessSection,
			site.URLAnalyzed,
			site.Title,
			site.MetaDescription,
			site.KeySections,
			site.FullTextSample,
			quality,
		)
	}

	b.WriteString(scoringRubric)
	return b.String()
}
