// Package client binds a provider to the cross-cutting behavior a session
// needs around every call, such as the generation deadline and request
// logging. Behavior is added as [Middleware] through [WithMiddleware]; the
// built-in ones live in the middleware subpackage.
//
// A Client keeps no conversation state: each [Client.Generate] call is an
// independent single-turn request.
package client
