// Package client talks to the LandChain HTTP API. A Client keeps the
// session cookie in its jar, so Login followed by Dashboard behaves like
// a browser.
package client
