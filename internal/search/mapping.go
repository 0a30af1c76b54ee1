package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for photo documents.
//
// Labels are analyzed with the standard analyzer so a keyword matches any
// word of a multi-word label ("retriever" finds "golden retriever"). Bucket
// and key are stored verbatim for building result URLs.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	labelsFieldMapping := bleve.NewTextFieldMapping()
	labelsFieldMapping.Analyzer = standard.Name
	labelsFieldMapping.Store = true
	labelsFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldLabels, labelsFieldMapping)

	objectKeyFieldMapping := bleve.NewTextFieldMapping()
	objectKeyFieldMapping.Analyzer = keyword.Name
	objectKeyFieldMapping.Store = true
	objectKeyFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldObjectKey, objectKeyFieldMapping)

	bucketFieldMapping := bleve.NewTextFieldMapping()
	bucketFieldMapping.Analyzer = keyword.Name
	bucketFieldMapping.Store = true
	bucketFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldBucket, bucketFieldMapping)

	createdFieldMapping := bleve.NewDateTimeFieldMapping()
	createdFieldMapping.Store = true
	createdFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldCreated, createdFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
