// Package storage is the object store behind upload backends.
//
// It provides an S3-compatible implementation for production and an
// in-process Memory implementation for development and tests. Both satisfy
// the Storage interface, so an upload backend can be wired to either.
//
// # Basic Usage
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "uploads",
//		Region:    "eu-central-1",
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := store.Put(ctx, r, size,
//		storage.WithPrefix("images"),
//		storage.WithACL(storage.ACLPublicRead),
//	)
//
// Keys are generated as {tenant}/{prefix}/{uuidv7}{ext}, where the extension
// comes from the content type. Content type is sniffed from magic bytes
// unless WithContentType overrides it.
//
// # URL Generation
//
//	url, err := store.URL(ctx, info.Key)                 // signed, 15 minutes
//	url, err := store.URL(ctx, info.Key, storage.WithPublic())
//	url, err := store.URL(ctx, info.Key, storage.WithDownload("report.pdf"))
//
// # Configuration
//
// Config carries env and yaml tags:
//
//	STORAGE_BUCKET, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY, STORAGE_ENDPOINT,
//	STORAGE_REGION, STORAGE_PUBLIC_URL, STORAGE_DEFAULT_ACL, STORAGE_PATH_STYLE
package storage
