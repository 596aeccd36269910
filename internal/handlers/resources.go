package handlers

import (
	"net/http"

	"github.com/hudulabs/hudumcp/internal/hudu"
	"github.com/hudulabs/hudumcp/internal/params"
)

const (
	// SecretMask replaces secret field values in password list results.
	// The true value never leaves the handler layer.
	SecretMask = "[REDACTED]"

	// articlePreviewLength bounds article bodies in list results; the
	// full content stays available through get_article_details.
	articlePreviewLength = 500

	// passwordAccessGuidance is returned instead of a raw 401 when the
	// API key lacks password access, which is a separate permission
	// toggle in Hudu.
	passwordAccessGuidance = "No asset passwords returned: the configured API key does not have " +
		"password access enabled. Enable \"Password Access\" for the API key in " +
		"Hudu admin settings to list asset passwords."
)

// resources is the static table every tool is generated from.
func resources() []resource {
	return []resource{
		{
			singular:        "company",
			collection:      "companies",
			path:            "/companies",
			listTool:        "get_companies",
			listDescription: "List companies in Hudu, optionally filtered by name or search term",
			getTool:         "get_company_details",
			getDescription:  "Get full details of a single company by ID",
			listFields: params.Schema{
				"name":   {Type: params.TypeString, Description: "Filter by exact company name"},
				"search": {Type: params.TypeString, Description: "Free-text search across company fields"},
			},
		},
		{
			singular:        "article",
			collection:      "articles",
			path:            "/articles",
			listTool:        "get_articles",
			listDescription: "List knowledge base articles; article bodies are trimmed to a short preview",
			getTool:         "get_article_details",
			getDescription:  "Get a single knowledge base article by ID, including its full content",
			listFields: params.Schema{
				"name":       {Type: params.TypeString, Description: "Filter by article name"},
				"company_id": {Type: params.TypeInt, Description: "Only articles belonging to this company"},
				"draft":      {Type: params.TypeBool, Description: "Only drafts (true) or only published articles (false)"},
			},
			postProcess: trimArticleContent,
		},
		{
			singular:        "asset",
			collection:      "assets",
			path:            "/assets",
			listTool:        "get_assets",
			listDescription: "List assets across companies, optionally filtered by company, layout, or name",
			getTool:         "get_asset_details",
			getDescription:  "Get full details of a single asset by ID",
			listFields: params.Schema{
				"company_id":      {Type: params.TypeInt, Description: "Only assets belonging to this company"},
				"name":            {Type: params.TypeString, Description: "Filter by asset name"},
				"archived":        {Type: params.TypeBool, Description: "Include archived assets"},
				"asset_layout_id": {Type: params.TypeInt, Description: "Only assets of this layout"},
			},
		},
		{
			singular:        "asset_password",
			collection:      "asset_passwords",
			path:            "/asset_passwords",
			listTool:        "get_asset_passwords",
			listDescription: "List asset passwords; secret values are always masked in the output",
			listFields: params.Schema{
				"company_id": {Type: params.TypeInt, Description: "Only passwords belonging to this company"},
				"name":       {Type: params.TypeString, Description: "Filter by password entry name"},
			},
			postProcess: maskPasswordSecrets,
			onListError: passwordAuthFallback,
		},
		{
			singular:        "asset_layout",
			collection:      "asset_layouts",
			path:            "/asset_layouts",
			listTool:        "get_asset_layouts",
			listDescription: "List asset layouts (the field schemas assets are built from)",
			listFields: params.Schema{
				"name": {Type: params.TypeString, Description: "Filter by layout name"},
			},
		},
		{
			singular:        "user",
			collection:      "users",
			path:            "/users",
			listTool:        "get_users",
			listDescription: "List Hudu users",
			listFields: params.Schema{
				"email":    {Type: params.TypeString, Description: "Filter by email address"},
				"archived": {Type: params.TypeBool, Description: "Include archived users"},
			},
		},
		{
			singular:        "network",
			collection:      "networks",
			path:            "/networks",
			listTool:        "get_networks",
			listDescription: "List documented networks",
			listFields: params.Schema{
				"company_id": {Type: params.TypeInt, Description: "Only networks belonging to this company"},
				"name":       {Type: params.TypeString, Description: "Filter by network name"},
			},
		},
		{
			singular:        "procedure",
			collection:      "procedures",
			path:            "/procedures",
			listTool:        "get_procedures",
			listDescription: "List procedures (process checklists)",
			listFields: params.Schema{
				"company_id": {Type: params.TypeInt, Description: "Only procedures belonging to this company"},
				"name":       {Type: params.TypeString, Description: "Filter by procedure name"},
			},
		},
		{
			singular:        "folder",
			collection:      "folders",
			path:            "/folders",
			listTool:        "get_folders",
			listDescription: "List folders used to organize articles and assets",
			listFields: params.Schema{
				"company_id": {Type: params.TypeInt, Description: "Only folders belonging to this company"},
				"name":       {Type: params.TypeString, Description: "Filter by folder name"},
			},
		},
		{
			singular:        "activity_log",
			collection:      "activity_logs",
			path:            "/activity_logs",
			listTool:        "get_activity_logs",
			listDescription: "List activity log entries, optionally filtered by user, resource type, or start date",
			listFields: params.Schema{
				"user_id":       {Type: params.TypeInt, Description: "Only actions performed by this user"},
				"resource_type": {Type: params.TypeString, Description: "Only actions on this resource type, e.g. Asset or Article"},
				"start_date":    {Type: params.TypeString, Description: "Only actions at or after this ISO 8601 timestamp"},
			},
		},
	}
}

// maskPasswordSecrets replaces secret fields in every password record. The
// password field is masked unconditionally so a listing can never leak a
// secret value, even if the upstream schema changes.
func maskPasswordSecrets(items []interface{}) []interface{} {
	for _, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		record["password"] = SecretMask
		if _, present := record["otp_secret"]; present {
			record["otp_secret"] = SecretMask
		}
	}
	return items
}

// passwordAuthFallback converts a 401 on the password listing into a
// successful, explanatory reply. Password access is a separate permission
// toggle on Hudu API keys; surfacing a raw auth failure here reads like a
// broken credential when the key itself is fine.
func passwordAuthFallback(err error) (map[string]interface{}, bool) {
	if !hudu.IsStatus(err, http.StatusUnauthorized) {
		return nil, false
	}
	return map[string]interface{}{
		"asset_passwords": []interface{}{},
		"summary":         passwordAccessGuidance,
	}, true
}

// trimArticleContent cuts article bodies down to a preview in list
// results.
func trimArticleContent(items []interface{}) []interface{} {
	for _, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		content, ok := record["content"].(string)
		if ok && len(content) > articlePreviewLength {
			record["content"] = content[:articlePreviewLength] + "..."
		}
	}
	return items
}
