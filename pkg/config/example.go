package config

const Example = `# linkedconnections configuration file

input:
  netex:
    files:
      - /data/netex/stops.xml
      - /data/netex/lines.xml
      - /data/netex/timetables.xml
    validate: true

  siri:
    type: auto  # et, vm, sx or auto
    service_date: 2026-02-05
    endpoints:
      vehicle_monitoring: https://api.example.org/siri/vm
      estimated_timetable: https://api.example.org/siri/et
      situation_exchange: https://api.example.org/siri/sx
    poll_interval: 30

output:
  format: jsonld  # jsonld, turtle, ntriples, rdfxml, json, csv
  destination: /data/output/connections.jsonld
  pretty: true

uris:
  base_uri: http://transport.example.org
  templates:
    stop_place: "{base_uri}/stops/{stop_id}"
    line: "{base_uri}/lines/{line_id}"
    service_journey: "{base_uri}/journeys/{service_journey_id}"
    connection: "{base_uri}/connections/{departure_date}/{service_journey_id}/{sequence}"
    operator: "{base_uri}/operators/{operator_id}"

# Dataset registry used by data-importer
datasources: data/datasources

strict: false
verbose: false
quiet: false

logging:
  level: INFO
`
