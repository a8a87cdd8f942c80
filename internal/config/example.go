// SPDX-License-Identifier: MIT

package config

// ExampleYAML is the annotated configuration written by `wellctl config init`.
// It mirrors Defaults; config tests keep the two in sync.
const ExampleYAML = `# wellcheck configuration
logLevel: info
logService: wellcheck
dataDir: data

server:
  listenAddr: ":5000"
  readTimeout: 10s
  writeTimeout: 60s
  idleTimeout: 120s
  shutdownTimeout: 15s
  maxHeaderBytes: 1048576
  maxBodyBytes: 1048576

metrics:
  enabled: true
  listenAddr: ":9090"

cors:
  allowedOrigins: ["*"]

rateLimit:
  enabled: true
  requestsPerMinute: 120
  whitelist: []

model:
  path: health_model_20_features.json
  watch: true

insights:
  # apiKey is usually supplied via GOOGLE_API_KEY
  apiKey: ""
  model: gemini-2.0-flash
  baseURL: ""
  timeout: 30s
  cacheBackend: memory
  cacheTTL: 1h
  ratePerSecond: 2
  burst: 4
  breakerThreshold: 5
  breakerReset: 30s

redis:
  addr: localhost:6379
  password: ""
  db: 0

history:
  backend: memory
  path: ""

telemetry:
  enabled: false
  exporter: grpc
  endpoint: localhost:4317
  environment: production
  samplingRate: 1.0
`
