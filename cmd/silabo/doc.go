// Command silabo is the administration CLI for the syllabus analysis
// service. It submits syllabi, inspects the analysis queue, lists
// equivalence groups, and manages configuration.
package main
