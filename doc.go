/*

Process of export

CFG Description (yaml) ->
	load ->
Control Flow Graph (cfg) ->
	export ->
Flat Block Document (json)

Document (json) ->
	dot ->
Graphviz Text (dot) ->
	render ->
Vector Image (svg)

*/
package cfgdump
