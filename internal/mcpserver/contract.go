package mcpserver

// DocumentFormatContract describes the canonical HTML document format that
// LLM consumers should follow when creating or updating documents.
const DocumentFormatContract = `# Compliee Document Format Contract

Every compliance document stored in Compliee MUST follow this structure.

## Structure

` + "```" + `html
<div id="metadata" style="display:none;" data-color="#4f46e5"></div>
<h1>Human-readable title</h1>
<p>Body content in standard HTML.</p>
` + "```" + `

## Rules

1. **The metadata div comes first.** It is hidden and carries the label
   color in ` + "`" + `data-color` + "`" + ` as a hex value. When omitted the color
   defaults to ` + "`" + `#ffffff` + "`" + `.
2. **The first ` + "`" + `<h1>` + "`" + ` is the title.** It is the primary display name
   everywhere: library list, search results, editor header.
3. **Everything after the title is the body.** Standard HTML fragments only
   (` + "`" + `<p>` + "`" + `, ` + "`" + `<ul>` + "`" + `, ` + "`" + `<table>` + "`" + `, headings from ` + "`" + `<h2>` + "`" + ` down).
   No ` + "`" + `<html>` + "`" + `, ` + "`" + `<head>` + "`" + ` or ` + "`" + `<body>` + "`" + ` wrapper.
4. **Page breaks** are ` + "`" + `<hr class="page-break">` + "`" + ` elements.
5. **File paths** end with ` + "`" + `.html` + "`" + `. File names are derived from the
   title: non-alphanumeric runs collapse to underscores, lowercased
   (e.g. "Q4 Policy Review" becomes ` + "`" + `q4_policy_review.html` + "`" + `).
6. **Encoding** is UTF-8.
7. **Completeness** is scored from the body word count; documents over 400
   words reach "Audited" status, shorter ones stay "Draft".

## Tool notes

- ` + "`" + `create_document` + "`" + ` takes the title and body separately and builds the
  envelope itself. Do NOT include the metadata div or ` + "`" + `<h1>` + "`" + ` in the
  body argument.
- The ` + "`" + `draft` + "`" + ` tool returns a body fragment ready to append to an
  existing document.

## Example

` + "```" + `html
<div id="metadata" style="display:none;" data-color="#16a34a"></div>
<h1>Data Retention Policy</h1>
<p>Status: Draft</p>
<p>Owner: compliance team</p>
<h2>Scope</h2>
<p>This policy covers all customer data stored in production systems.</p>
` + "```" + `
`
