// Package store loads and saves pages.
//
// A page is a space document stored under a short name. Two backends
// are provided: DirStore keeps one file per page in a directory and
// S3Store keeps one object per page in a bucket. Open picks one from
// the site configuration.
//
//	pages, err := store.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	values, err := pages.Get(ctx, "about")
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
package store
