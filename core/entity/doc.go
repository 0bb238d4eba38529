// Package entity provides a generic REST resource client over apiclient.
//
// A Resource binds an entity collection endpoint (for example
// "/shop-visits") to a Go type and exposes the usual CRUD surface plus
// filtered listing. The entity schema is caller-defined; the package only
// handles paths, query parameters, and decoding.
//
//	visits := entity.NewResource[ShopVisit](client, "/shop-visits")
//	recent, err := visits.List(ctx, entity.WithLimit(20))
//
// Files wraps the backend's multipart upload endpoint for visit photos and
// other attachments.
package entity
