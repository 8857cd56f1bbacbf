// Package counter is a minimal contract: it stores a count and its owner,
// lets anyone increment the count and lets the owner reset it.
//
// Messages:
//
//	instantiate  {"count": 0}
//	execute      {"increment": {}} | {"reset": {"count": 5}}
//	query        {"get_count": {}}  -> {"count": 2}
package counter
