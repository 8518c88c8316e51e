/*
Package ports defines the driven ports (interfaces) of a probe deployment.

These interfaces decouple runs from the infrastructure around them, so that
configuration can come from memory, files or Redis, and drivers can be
shared between processes behind a distributed lock.

# Key Interfaces

  - ConfigSource: supplies the key/value configuration a run starts with.
  - ConfigStore: a ConfigSource that can also be written, used by the CLI and tests to seed values.
  - DistributedLocker: serializes access to a scarce driver across processes.
*/
package ports
