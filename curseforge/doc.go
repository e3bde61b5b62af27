// Package curseforge is the client for the single-lookup registry.
//
// The registry offers no batch or search capability: one GET per slug.
// A 404, 403, or 429 all mean "this registry has nothing usable for this
// slug" and trigger the caller's fallback chain; transport errors do the
// same but are reported distinctly so they are never cached.
package curseforge
