// Package api wires the HTTP surface: the router, the request handlers
// for accounts, presentations and analytics, and the middleware chain
// around them. Handlers translate transport concerns to and from the
// service layer; all business rules live in the services.
package api
