/*
Package session implements the session lifecycle for the Shipyard gateway.

A session has exactly two states: open and absent. Resolve moves a session
from absent to open (minting a fresh identifier when the caller supplied
none); Close moves it back to absent and is idempotent. There is no
timeout-driven expiry: within one process lifetime the session set only
grows unless clients tear their sessions down explicitly. Deployments that
need bounded lifetime should use the Redis store's TTL option.
*/
package session
