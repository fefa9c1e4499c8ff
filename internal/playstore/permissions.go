package playstore

import (
	"context"

	"github.com/tidwall/gjson"
)

// Permission groups in an xdSrCf payload: common, then other.
var permissionGroups = []string{"0", "1"}

// PermissionsOptions selects an app and the output shape.
type PermissionsOptions struct {
	Locale `mapstructure:",squash"`
	AppID  string `mapstructure:"appId"`
	Short  bool   `mapstructure:"short"`
}

// Permissions returns what an app requests. The result is []Permission, or
// the distinct permission names as []string when short is set.
func (c *Client) Permissions(ctx context.Context, params Params) (any, error) {
	var opts PermissionsOptions
	if err := c.decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.AppID == "" {
		return nil, invalidOption("appId missing")
	}

	inner := mustJSON([]any{[]any{nil, []any{opts.AppID, 7}, []any{}}})
	payload, err := c.batchExecute(ctx, rpcPermissions, inner, c.locale(opts.Locale))
	if err != nil {
		return nil, err
	}

	perms := parsePermissions(payload)
	if !opts.Short {
		return perms, nil
	}
	seen := map[string]bool{}
	names := []string{}
	for _, p := range perms {
		if !seen[p.Permission] {
			seen[p.Permission] = true
			names = append(names, p.Permission)
		}
	}
	return names, nil
}

func parsePermissions(payload gjson.Result) []Permission {
	perms := []Permission{}
	for _, group := range permissionGroups {
		payload.Get(group).ForEach(func(_, section gjson.Result) bool {
			kind := section.Get("0").String()
			section.Get("2").ForEach(func(_, item gjson.Result) bool {
				if name := item.Get("1").String(); name != "" {
					perms = append(perms, Permission{Permission: name, Type: kind})
				}
				return true
			})
			return true
		})
	}
	return perms
}
