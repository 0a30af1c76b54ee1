package providers

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/keywords"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/search"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/storage"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.PhotoIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve photo index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Open(search.Options{
		DataPath: cfg.Index.Path,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "path", cfg.Index.Path)

	return &SearchIndexHandle{PhotoIndex: index}, nil
}

// ProvideKeywordExtractor provides the query interpreter: the Lex bot when
// one is configured, the local analyzer otherwise.
func ProvideKeywordExtractor(i do.Injector) (keywords.Extractor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.UsesLex() {
		log.Info("Keyword extraction is local")
		return keywords.NewLocalExtractor()
	}

	awsCfg := do.MustInvoke[aws.Config](i)
	log.Info("Keyword extraction uses Lex", "bot_id", cfg.Keywords.BotID, "locale", cfg.Keywords.LocaleID)

	return keywords.NewLexExtractor(lexruntimev2.NewFromConfig(awsCfg), keywords.LexConfig{
		BotID:      cfg.Keywords.BotID,
		BotAliasID: cfg.Keywords.BotAliasID,
		LocaleID:   cfg.Keywords.LocaleID,
	}), nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	extractor := do.MustInvoke[keywords.Extractor](i)
	urls := do.MustInvoke[storage.URLBuilder](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(extractor, indexHandle.PhotoIndex, urls, log.Logger), nil
}
