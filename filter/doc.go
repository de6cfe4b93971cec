// Package filter selects Home Assistant entity states with expr-lang
// expressions.
//
// Each expression sees one state at a time:
//
//	entity_id, domain, object_id, name, state, attributes,
//	last_changed, last_updated
//
// and the helpers attr(key), hasAttr(key), changedWithin("15m") and num(v),
// alongside expr's own builtins and operators. For example:
//
//	domain == "light" && state == "on"
//	domain == "sensor" && attr("device_class") == "temperature" && num(state) > 25
//	!changedWithin("24h") && entity_id startsWith "binary_sensor.door"
//	lower(name) contains "kitchen"
package filter
