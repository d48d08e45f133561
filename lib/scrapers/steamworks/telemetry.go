package steamworks

import "steamdoc/lib/telemetry"

var tracer = telemetry.Tracer("steamdoc.lib.scrapers.steamworks")
