// Package afmformats loads atomic force microscopy force-distance data.
//
// Supported files are JPK Instruments archives (".jpk-force",
// ".jpk-force-map" and ".jpk-qi-data"). Every curve in a file becomes one
// [Dataset] holding the decoded columns and the curve metadata, such as the
// spring constant, approach and retract rates, and the imaging mode.
//
// # Quick Start
//
// Load all curves of a force map:
//
//	curves, err := afmformats.Load("map.jpk-force-map")
//	if err != nil {
//	    return err
//	}
//	for _, ds := range curves {
//	    appr, err := ds.Appr()
//	    if err != nil {
//	        return err
//	    }
//	    force, err := appr.Column("force")
//	    ...
//	}
//
// # Archive handles
//
// Files are opened through an [archive.Cache] that keeps a bounded number of
// archives open. Load creates and closes a private cache unless one is
// passed with [LoadWithCache], which lets several loads share open handles:
//
//	cache, err := archive.New(archive.WithCapacity(64))
//	if err != nil {
//	    return err
//	}
//	defer cache.Close()
//	for _, p := range paths {
//	    curves, err := afmformats.Load(p, afmformats.LoadWithCache(cache))
//	    ...
//	}
//
// For lower-level access to properties, metadata and single segments, use
// the [jpk] subpackage.
package afmformats
