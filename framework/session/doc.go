// Package session provides flash storage: values written during one request
// and read exactly once by the next.
//
// # Stores
//
//	store := session.NewMemoryStore(2 * time.Hour)              // single instance
//	store := session.NewRedisStore(redisClient, "flash:", ttl)   // shared
//
// # Flash bag
//
// Flash binds a Store to one session id and JSON-encodes values, so a flash
// read back from Redis looks the same as one read from memory. It implements
// validation.Flasher:
//
//	flash, _ := session.FromContext(r.Context())
//	res, err := engine.Run(r.Context(), flash, params, rules)
//
//	// next request
//	old, _, _ := validation.FormData(r.Context(), flash)
//	errs, _   := flash.Strings(r.Context(), validation.FlashError)
package session
