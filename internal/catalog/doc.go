// Package catalog loads annotation catalogs: the named-region documents that
// tell an annotation-based analysis which sub-volumes to extract.
//
// A catalog file is a JSON document whose root object has exactly one key,
// the catalog Marker. Its value maps each region name to the region's
// metadata:
//
//	{"VesselVio Annotations": {"Eye": {"colors": ["#190000"], "ids": [1]}}}
//
// Anything else is rejected with a MalformedCatalogError. Under RGB
// annotation, regions that share a color make region identity ambiguous;
// Load still returns the catalog in that case but pairs it with a
// DuplicateColorWarning that the caller must explicitly accept.
package catalog
