// Package playstore scrapes Google Play.
//
// A Client exposes one method per operation (App, List, Search, Developer,
// Suggest, Reviews, Similar, Permissions, DataSafety, Categories). Options
// arrive as a loosely typed Params bag and are decoded per operation;
// results are plain JSON-serializable structs. Pages are fetched through a
// colly collector, embedded AF_initDataCallback payloads and batchexecute
// RPC responses are probed with gjson, and listing pages are read with
// goquery.
package playstore
