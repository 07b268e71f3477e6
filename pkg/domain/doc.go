/*
Package domain contains the core domain models for the Shipyard gateway.

It defines the entities exchanged between the RPC dispatcher, the tool
registry, and the deployment providers. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - DeploymentRecord: Normalized snapshot of a platform's deployment/service reply.
  - Target: A deployable unit (project or service) as listed by a platform.
  - Session: Correlation state for one logical client connection.
  - Error: Tagged failure carrying one of the enumerated error kinds.
*/
package domain
