// Package gedcom reads and writes a pragmatic subset of GEDCOM 5.5, the
// de-facto interchange format for genealogy data.
//
// # Supported Structures
//
// Decoding understands individual (INDI) and family (FAM) records with
// the tags Kintree's data model can represent:
//
//	INDI: NAME, SEX, BIRT/DATE, FAMC, FAMS
//	FAM:  HUSB, WIFE, CHIL, MARR
//
// Unknown tags are skipped, so files produced by richer tools still
// import; only their extra detail is dropped. Line format violations are
// reported with line numbers.
//
// # Mapping
//
// Individuals become [family.Person] values with the @-stripped
// cross-reference as ID. Families are denormalized into the persons'
// ParentIDs/ChildIDs/SpouseIDs lists plus explicit spouse relationships;
// the marriage order of a polygamous spouse follows the order of that
// person's FAM records in the file.
//
// Encoding reverses the mapping, deriving FAM records from the couples
// and parent sets present in the tree. A decode of the encoded output
// yields an equivalent tree.
package gedcom
