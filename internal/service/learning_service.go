package service

import (
	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

type LearningService struct {
	LearningRepo *repository.LearningRepository
}

func NewLearningService(learningRepo *repository.LearningRepository) *LearningService {
	return &LearningService{LearningRepo: learningRepo}
}

// ListChapters returns all chapters deduplicated by slug. Duplicates should
// not exist, but a doubled admin write must not corrupt the roadmap view.
func (s *LearningService) ListChapters() ([]model.LearningChapter, error) {
	chapters, err := s.LearningRepo.ListChapters()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(chapters))
	unique := make([]model.LearningChapter, 0, len(chapters))
	for _, ch := range chapters {
		if seen[ch.Slug] {
			continue
		}
		seen[ch.Slug] = true
		unique = append(unique, ch)
	}
	return unique, nil
}

// RoadmapSection is a top-level group with its chapters in sibling order.
type RoadmapSection struct {
	model.LearningChapter
	Children []model.LearningChapter `json:"children"`
}

// RoadmapView is the assembled two-level tree: sections with children, plus
// chapters that belong to no section.
type RoadmapView struct {
	Sections []RoadmapSection        `json:"sections"`
	Orphans  []model.LearningChapter `json:"orphans"`
}

// Roadmap groups chapters under their parent sections. Chapters referencing a
// missing parent are reported as orphans rather than dropped.
func (s *LearningService) Roadmap() (*RoadmapView, error) {
	chapters, err := s.ListChapters()
	if err != nil {
		return nil, err
	}

	view := &RoadmapView{
		Sections: []RoadmapSection{},
		Orphans:  []model.LearningChapter{},
	}

	childrenByParent := make(map[string][]model.LearningChapter)
	for _, ch := range chapters {
		if ch.ParentSlug != "" {
			childrenByParent[ch.ParentSlug] = append(childrenByParent[ch.ParentSlug], ch)
		}
	}

	sectionSlugs := make(map[string]bool)
	for _, ch := range chapters {
		if ch.IsSection() {
			sectionSlugs[ch.Slug] = true
			kids := childrenByParent[ch.Slug]
			if kids == nil {
				kids = []model.LearningChapter{}
			}
			view.Sections = append(view.Sections, RoadmapSection{
				LearningChapter: ch,
				Children:        kids,
			})
		}
	}

	for _, ch := range chapters {
		if ch.IsSection() {
			continue
		}
		if ch.ParentSlug == "" || !sectionSlugs[ch.ParentSlug] {
			view.Orphans = append(view.Orphans, ch)
		}
	}

	return view, nil
}

type ChapterInput struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Badge      string `json:"badge"`
	ParentSlug string `json:"parentSlug"`
	IntroText  string `json:"introText"`
	Order      int    `json:"order"`
}

// normalizeParentSlug strips query fragments that leak in from router links.
func normalizeParentSlug(v string) string {
	if v == "" {
		return ""
	}
	if i := strings.IndexByte(v, '?'); i >= 0 {
		v = v[:i]
	}
	return v
}

// UpsertChapter creates or updates a chapter by slug identity.
func (s *LearningService) UpsertChapter(input *ChapterInput) (*model.LearningChapter, error) {
	if input.Slug == "" || input.Title == "" {
		return nil, errors.New("slug and title are required")
	}

	badge := input.Badge
	if badge == "" {
		badge = model.BadgeChapter
	}
	parentSlug := normalizeParentSlug(input.ParentSlug)

	chapter, err := s.LearningRepo.FindChapterBySlug(input.Slug)
	if err == nil {
		chapter.Title = input.Title
		chapter.Badge = badge
		chapter.ParentSlug = parentSlug
		chapter.IntroText = input.IntroText
		chapter.OrderNum = input.Order
		if err := s.LearningRepo.UpdateChapter(chapter); err != nil {
			return nil, err
		}
		return chapter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chapter = &model.LearningChapter{
		Slug:       input.Slug,
		Title:      input.Title,
		Badge:      badge,
		ParentSlug: parentSlug,
		IntroText:  input.IntroText,
		OrderNum:   input.Order,
	}
	if err := s.LearningRepo.CreateChapter(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// Reorder persists a dense 0..n-1 ordering for one sibling group: the
// top-level sections when parentSlug is empty, otherwise the chapters under
// that parent. Slugs outside the group are rejected, so a cross-type drag
// cannot scramble unrelated rows.
func (s *LearningService) Reorder(parentSlug string, slugs []string) error {
	parentSlug = normalizeParentSlug(parentSlug)

	for _, chapterSlug := range slugs {
		chapter, err := s.LearningRepo.FindChapterBySlug(chapterSlug)
		if err != nil {
			return util.ErrChapterNotFound
		}
		if parentSlug == "" {
			if !chapter.IsSection() {
				return fmt.Errorf("chapter %q is not a top-level section", chapterSlug)
			}
		} else if chapter.ParentSlug != parentSlug {
			return fmt.Errorf("chapter %q does not belong to %q", chapterSlug, parentSlug)
		}
	}

	for idx, chapterSlug := range slugs {
		if err := s.LearningRepo.UpdateChapterOrder(chapterSlug, idx); err != nil {
			return err
		}
	}
	return nil
}

// DeleteChapter removes the chapter; for a section this cascades to every
// chapter whose parent slug references it.
func (s *LearningService) DeleteChapter(slug string) error {
	if err := s.LearningRepo.DeleteChapter(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChapterNotFound
		}
		return err
	}
	return nil
}

// AssignParent re-homes an orphan chapter under the named section. The target
// slug is taken as given; a dangling parent shows up as an orphan again.
func (s *LearningService) AssignParent(chapterSlug, parentSlug string) (*model.LearningChapter, error) {
	parentSlug = normalizeParentSlug(parentSlug)
	if parentSlug == "" {
		return nil, errors.New("parentSlug is required")
	}

	chapter, err := s.LearningRepo.FindChapterBySlug(chapterSlug)
	if err != nil {
		return nil, util.ErrChapterNotFound
	}

	if err := s.LearningRepo.UpdateChapterParent(chapter.Slug, parentSlug); err != nil {
		return nil, err
	}
	chapter.ParentSlug = parentSlug
	return chapter, nil
}

func (s *LearningService) CleanupOrphans() (int64, error) {
	return s.LearningRepo.CleanupOrphans()
}

// --- chapter pages (content blocks) ---

// BlockView is one content block with its video list parsed.
type BlockView struct {
	ID     string   `json:"id"`
	Anchor string   `json:"anchor"`
	Title  string   `json:"title"`
	TextMD string   `json:"textMd"`
	Videos []string `json:"videos"`
	Order  int      `json:"order"`
}

// ChapterPageView is a chapter plus its ordered content blocks.
type ChapterPageView struct {
	model.LearningChapter
	Sections []BlockView `json:"sections"`
}

func (s *LearningService) GetChapterPage(slug string) (*ChapterPageView, error) {
	chapter, err := s.LearningRepo.FindChapterBySlug(slug)
	if err != nil {
		return nil, util.ErrChapterNotFound
	}

	blocks, err := s.LearningRepo.ListSections(chapter.ID)
	if err != nil {
		return nil, err
	}

	page := &ChapterPageView{
		LearningChapter: *chapter,
		Sections:        make([]BlockView, 0, len(blocks)),
	}
	for _, b := range blocks {
		var videos []string
		if err := json.Unmarshal([]byte(b.VideosJSON), &videos); err != nil || videos == nil {
			videos = []string{}
		}
		page.Sections = append(page.Sections, BlockView{
			ID:     b.ID,
			Anchor: b.Anchor,
			Title:  b.Title,
			TextMD: b.TextMD,
			Videos: videos,
			Order:  b.OrderNum,
		})
	}
	return page, nil
}

type BlockInput struct {
	ID     string   `json:"id"`
	Anchor string   `json:"anchor"`
	Title  string   `json:"title"`
	TextMD string   `json:"textMd"`
	Videos []string `json:"videos"`
	Order  int      `json:"order"`
}

// UpsertSection writes one content block, normalizing its video URLs to
// embeddable form.
func (s *LearningService) UpsertSection(chapterID string, input *BlockInput) (*model.LearningSection, error) {
	if _, err := s.findChapterByID(chapterID); err != nil {
		return nil, err
	}

	videos := make([]string, 0, len(input.Videos))
	for _, v := range input.Videos {
		if v != "" {
			videos = append(videos, NormalizeEmbedURL(v))
		}
	}
	encoded, err := json.Marshal(videos)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = "Без названия"
	}

	if input.ID != "" {
		if block, err := s.LearningRepo.FindSectionByID(input.ID); err == nil {
			block.ChapterID = chapterID
			block.Anchor = input.Anchor
			block.Title = title
			block.TextMD = input.TextMD
			block.VideosJSON = string(encoded)
			block.OrderNum = input.Order
			if err := s.LearningRepo.UpdateSection(block); err != nil {
				return nil, err
			}
			return block, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	block := &model.LearningSection{
		ChapterID:  chapterID,
		Anchor:     input.Anchor,
		Title:      title,
		TextMD:     input.TextMD,
		VideosJSON: string(encoded),
		OrderNum:   input.Order,
	}
	block.ID = input.ID
	if err := s.LearningRepo.CreateSection(block); err != nil {
		return nil, err
	}
	return block, nil
}

// SaveChapterPage upserts the chapter metadata, then every block sequentially
// in display order (order index = array position). The loop is deliberately
// not transactional: a mid-loop failure leaves earlier blocks saved, and the
// admin retries.
func (s *LearningService) SaveChapterPage(input *ChapterInput, blocks []BlockInput) (*ChapterPageView, error) {
	chapter, err := s.UpsertChapter(input)
	if err != nil {
		return nil, err
	}

	for idx := range blocks {
		blocks[idx].Order = idx
		if _, err := s.UpsertSection(chapter.ID, &blocks[idx]); err != nil {
			return nil, fmt.Errorf("saving block %d: %w", idx, err)
		}
	}

	return s.GetChapterPage(chapter.Slug)
}

func (s *LearningService) DeleteSection(id string) error {
	if _, err := s.LearningRepo.FindSectionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}
	return s.LearningRepo.DeleteSection(id)
}

func (s *LearningService) findChapterByID(id string) (*model.LearningChapter, error) {
	chapter, err := s.LearningRepo.FindChapterByID(id)
	if err != nil {
		return nil, util.ErrChapterNotFound
	}
	return chapter, nil
}

var (
	youtubeShortRe = regexp.MustCompile(`youtu\.be/([\w-]{11})`)
	youtubeWatchRe = regexp.MustCompile(`[?&]v=([\w-]{11})`)
)

// NormalizeEmbedURL converts watch and short YouTube URLs to the embeddable
// form by extracting the 11-character video id. Unrecognized URLs pass
// through unchanged.
func NormalizeEmbedURL(url string) string {
	if strings.HasPrefix(url, "https://www.youtube.com/embed/") ||
		strings.HasPrefix(url, "http://www.youtube.com/embed/") {
		return url
	}
	if m := youtubeShortRe.FindStringSubmatch(url); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	if m := youtubeWatchRe.FindStringSubmatch(url); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	return url
}
