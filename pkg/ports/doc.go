/*
Package ports defines the driven ports (interfaces) for the Shipyard gateway.

These interfaces decouple the dispatch core from external implementations,
allowing the gateway to work with different deployment platforms and session
storage backends.

# Key Interfaces

  - DeploymentProvider: One deployment platform (Vercel, Render, ...) behind a
    narrow trigger/status/list capability.
  - SessionStore: Responsible for persisting and loading Session records.
*/
package ports
