// Package handlers builds the tool surface over the Hudu API. Every
// resource cluster is described by one resource value and expanded into
// generic list/detail tools, so adding an endpoint means adding a table
// entry rather than hand-writing another handler.
package handlers

import (
	"context"
	"fmt"

	"github.com/hudulabs/hudumcp/internal/hudu"
	"github.com/hudulabs/hudumcp/internal/params"
	"github.com/hudulabs/hudumcp/internal/router"
)

// resource describes one Hudu resource cluster's tool surface.
type resource struct {
	// singular and collection are the record and collection field names,
	// e.g. "company" / "companies".
	singular   string
	collection string

	// path is the API endpoint under /api/v1, e.g. "/companies".
	path string

	listTool        string
	listDescription string

	// getTool is empty for resources without a detail endpoint.
	getTool        string
	getDescription string

	// listFields declares filter fields beyond the standard pagination
	// pair.
	listFields params.Schema

	// postProcess reshapes list items before envelope construction,
	// e.g. secret masking or content preview trimming.
	postProcess func(items []interface{}) []interface{}

	// onListError may translate a listing failure into a successful
	// reply. Returns handled=false to propagate the error unchanged.
	onListError func(err error) (data map[string]interface{}, handled bool)
}

// Register builds all resource tools and adds them to the router.
func Register(r *router.Router, api hudu.API) error {
	for _, res := range resources() {
		listSchema := params.Schema{}
		if res.listFields != nil {
			listSchema = res.listFields
		}
		err := r.Register(router.Tool{
			Name:        res.listTool,
			Description: res.listDescription,
			Schema:      listSchema.WithPagination(),
			Handler:     res.listHandler(api),
		})
		if err != nil {
			return err
		}

		if res.getTool == "" {
			continue
		}
		err = r.Register(router.Tool{
			Name:        res.getTool,
			Description: res.getDescription,
			Schema: params.Schema{
				"id": {
					Type:        params.TypeInt,
					Required:    true,
					Description: fmt.Sprintf("ID of the %s to retrieve", res.singular),
				},
			},
			Handler: res.getHandler(api),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// listHandler returns the handler for the resource's listing tool.
func (res resource) listHandler(api hudu.API) router.Handler {
	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		body, err := api.List(ctx, res.path, params.ToQuery(args))
		if err != nil {
			if res.onListError != nil {
				if data, handled := res.onListError(err); handled {
					return data, nil
				}
			}
			return nil, err
		}

		items := extractItems(body, res.collection)
		if res.postProcess != nil {
			items = res.postProcess(items)
		}

		data := map[string]interface{}{
			res.collection: items,
			"meta":         listMeta(args, len(items)),
			"summary":      fmt.Sprintf("Retrieved %d %s", len(items), res.collection),
		}
		return data, nil
	}
}

// getHandler returns the handler for the resource's detail tool.
func (res resource) getHandler(api hudu.API) router.Handler {
	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		id, _ := args["id"].(int)
		body, err := api.Get(ctx, res.path, id)
		if err != nil {
			return nil, err
		}

		// Detail endpoints wrap the record under its singular name;
		// some return it bare.
		record := body[res.singular]
		if record == nil {
			record = body
		}

		return map[string]interface{}{
			res.singular: record,
			"summary":    fmt.Sprintf("Retrieved %s %d", res.singular, id),
		}, nil
	}
}

// extractItems pulls the item slice out of a listing response body.
func extractItems(body map[string]interface{}, collection string) []interface{} {
	if items, ok := body[collection].([]interface{}); ok {
		return items
	}
	if items, ok := body["data"].([]interface{}); ok {
		return items
	}
	return []interface{}{}
}

// listMeta assembles the pagination metadata echoed back with every
// listing. The collaborator defaults the page to 1 when it was omitted.
func listMeta(args map[string]interface{}, count int) map[string]interface{} {
	meta := map[string]interface{}{
		"current_page": intArg(args, "page", 1),
		"count":        count,
	}
	if size, ok := args["page_size"].(int); ok {
		meta["page_size"] = size
	}
	return meta
}

func intArg(args map[string]interface{}, name string, fallback int) int {
	if n, ok := args[name].(int); ok {
		return n
	}
	return fallback
}
