// Package io reads and writes POM hierarchies as JSON, and writes files
// atomically.
//
// # JSON Format
//
// A hierarchy has two arrays. Nodes are POM files; edges point from a child
// to the parent it inherits from:
//
//	{
//	  "nodes": [
//	    {"id": "app/pom.xml", "group_id": "io.example", "artifact_id": "app", "target": true},
//	    {"id": "pom.xml", "group_id": "io.example", "artifact_id": "parent", "packaging": "pom"}
//	  ],
//	  "edges": [
//	    {"from": "app/pom.xml", "to": "pom.xml"}
//	  ]
//	}
//
// `pomedit chain --json` writes this format and `pomedit graph --input`
// renders it, so a hierarchy can be captured once and drawn elsewhere.
package io
